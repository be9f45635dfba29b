package kilo

import (
	"bytes"
	"fmt"
	"syscall"
	"time"
)

// rowCxToRx translates a raw-content column into a rendered column,
// expanding tabs the same way updateRow does.
func rowCxToRx(row *erow, cx int) int {
	rx := 0
	for j := 0; j < cx && j < len(row.chars); j++ {
		if row.chars[j] == keyTab {
			rx += (tabStop - 1) - (rx % tabStop)
		}
		rx++
	}
	return rx
}

// scroll clamps the viewport origin so the cursor stays inside the
// visible rectangle, adjusting each axis independently by the minimum
// amount.
func (e *Editor) scroll() {
	rx := 0
	if e.cy < len(e.rows) {
		rx = rowCxToRx(e.rows[e.cy], e.cx)
	}
	if e.cy < e.rowoff {
		e.rowoff = e.cy
	}
	if e.cy >= e.rowoff+e.screenrows {
		e.rowoff = e.cy - e.screenrows + 1
	}
	if rx < e.coloff {
		e.coloff = rx
	}
	if rx >= e.coloff+e.screencols {
		e.coloff = rx - e.screencols + 1
	}
}

func (e *Editor) drawRows(ab *bytes.Buffer) {
	for y := 0; y < e.screenrows; y++ {
		filerow := e.rowoff + y

		if filerow >= len(e.rows) {
			if len(e.rows) == 0 && y == e.screenrows/3 {
				welcome := fmt.Sprintf("Kilo editor -- version %s", Version)
				if len(welcome) > e.screencols {
					welcome = welcome[:e.screencols]
				}
				padding := (e.screencols - len(welcome)) / 2
				if padding > 0 {
					ab.WriteByte('~')
					padding--
				}
				for padding > 0 {
					ab.WriteByte(' ')
					padding--
				}
				ab.WriteString(welcome)
				ab.WriteString("\x1b[0K\r\n")
			} else {
				ab.WriteString("~\x1b[0K\r\n")
			}
			continue
		}

		r := e.rows[filerow]
		renderLen := len(r.render) - e.coloff
		if renderLen < 0 {
			renderLen = 0
		}
		if renderLen > 0 {
			if renderLen > e.screencols {
				renderLen = e.screencols
			}
			rStr := r.render[e.coloff : e.coloff+renderLen]
			hl := r.hl[e.coloff : e.coloff+renderLen]
			currentColor := -1
			for j := 0; j < len(rStr); j++ {
				if hl[j] == hlNonprint {
					ab.WriteString("\x1b[7m")
					if rStr[j] <= 26 {
						ab.WriteByte('@' + rStr[j])
					} else {
						ab.WriteByte('?')
					}
					ab.WriteString("\x1b[0m")
				} else if hl[j] == hlNormal {
					if currentColor != -1 {
						ab.WriteString("\x1b[39m")
						currentColor = -1
					}
					ab.WriteByte(rStr[j])
				} else {
					color := syntaxToColor(hl[j])
					if color != currentColor {
						ab.WriteString(fmt.Sprintf("\x1b[%dm", color))
						currentColor = color
					}
					ab.WriteByte(rStr[j])
				}
			}
		}
		ab.WriteString("\x1b[39m")
		ab.WriteString("\x1b[0K")
		ab.WriteString("\r\n")
	}
}

func (e *Editor) drawStatusBar(ab *bytes.Buffer) {
	ab.WriteString("\x1b[0K")
	ab.WriteString("\x1b[7m")
	modifiedStr := ""
	if e.dirty > 0 {
		modifiedStr = "(modified)"
	}
	fname := e.filename
	if fname == "" {
		fname = "[No Name]"
	}
	if len(fname) > 20 {
		fname = fname[:20]
	}
	status := fmt.Sprintf("%.20s - %d lines %s", fname, len(e.rows), modifiedStr)
	rstatus := fmt.Sprintf("%d/%d", e.cy+1, len(e.rows))
	if len(status) > e.screencols {
		status = status[:e.screencols]
	}
	ab.WriteString(status)
	slen := len(status)
	for slen < e.screencols {
		if e.screencols-slen == len(rstatus) {
			ab.WriteString(rstatus)
			break
		}
		ab.WriteByte(' ')
		slen++
	}
	ab.WriteString("\x1b[0m\r\n")
}

func (e *Editor) drawMessageBar(ab *bytes.Buffer) {
	ab.WriteString("\x1b[0K")
	if e.statusmsg != "" && time.Since(e.statustime).Seconds() < 5 {
		msg := e.statusmsg
		if len(msg) > e.screencols {
			msg = msg[:e.screencols]
		}
		ab.WriteString(msg)
	}
}

// refreshScreen assembles the whole frame into one buffer and emits it
// with a single write to avoid tearing.
func (e *Editor) refreshScreen() {
	e.scroll()

	var ab bytes.Buffer
	ab.WriteString("\x1b[?25l") // Hide cursor
	ab.WriteString("\x1b[H")    // Go home

	e.drawRows(&ab)
	e.drawStatusBar(&ab)
	e.drawMessageBar(&ab)

	// Terminal cursor position, 1-based, in rendered columns.
	rx := 0
	if e.cy < len(e.rows) {
		rx = rowCxToRx(e.rows[e.cy], e.cx)
	}
	screenRow := e.cy - e.rowoff + 1
	screenCol := rx - e.coloff + 1
	if screenRow < 1 {
		screenRow = 1
	}
	if screenCol < 1 {
		screenCol = 1
	}
	ab.WriteString(fmt.Sprintf("\x1b[%d;%dH", screenRow, screenCol))
	ab.WriteString("\x1b[?25h") // Show cursor
	syscall.Write(e.out, ab.Bytes())
}
