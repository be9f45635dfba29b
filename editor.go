// Package kilo is a small terminal text editor in the antirez kilo
// lineage. It emits VT100 escape sequences directly, without depending
// on ncurses.
package kilo

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const Version = "0.0.1"

const (
	kiloQuitTimes = 3
	kiloQueryLen  = 256
	tabStop       = 8
)

// erow represents a single line of the file being edited.
type erow struct {
	idx    int
	chars  string
	render string
	hl     []byte
	hlOC   bool // ends inside an open multi-line comment
}

// Editor holds the complete state of the editor. The cursor is a buffer
// position: cx is a byte offset into the current row's raw content and cy
// a row index; rowoff/coloff are the viewport origin, maintained by the
// renderer.
type Editor struct {
	cx, cy      int
	rowoff      int
	coloff      int
	screenrows  int
	screencols  int
	rows        []*erow
	dirty       int
	filename    string
	statusmsg   string
	statustime  time.Time
	syntax      *Syntax
	rawmode     bool
	origTermios unix.Termios
	quitTimes   int
	in, out     int
}

// New creates an Editor attached to stdin/stdout, initializes the
// terminal size, and installs the SIGWINCH handler.
func New() (*Editor, error) {
	return NewWithFds(int(os.Stdin.Fd()), int(os.Stdout.Fd()))
}

// NewWithFds creates an Editor reading keys from in and writing frames to
// out. Both must be terminals.
func NewWithFds(in, out int) (*Editor, error) {
	e := &Editor{
		quitTimes: kiloQuitTimes,
		in:        in,
		out:       out,
	}
	if err := e.updateWindowSize(); err != nil {
		return nil, err
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		// Flag only; the main loop picks the resize up between keys.
		for range ch {
			atomic.StoreInt32(&resizePending, 1)
		}
	}()
	return e, nil
}

// ---------- Row operations ----------

// rowLen returns the raw length of a row, or 0 for any out-of-range index
// (including the virtual row past the end of the buffer).
func (e *Editor) rowLen(at int) int {
	if at < 0 || at >= len(e.rows) {
		return 0
	}
	return len(e.rows[at].chars)
}

func (e *Editor) updateRow(row *erow) {
	var buf bytes.Buffer
	for _, c := range []byte(row.chars) {
		if c == keyTab {
			buf.WriteByte(' ')
			for buf.Len()%tabStop != 0 {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteByte(c)
		}
	}
	row.render = buf.String()
	e.updateSyntax(row)
}

func (e *Editor) insertRow(at int, s string) {
	if at > len(e.rows) {
		return
	}
	row := &erow{
		idx:   at,
		chars: s,
	}
	if at == len(e.rows) {
		e.rows = append(e.rows, row)
	} else {
		e.rows = append(e.rows, nil)
		copy(e.rows[at+1:], e.rows[at:])
		e.rows[at] = row
		for j := at + 1; j < len(e.rows); j++ {
			e.rows[j].idx = j
		}
	}
	e.updateRow(row)
	e.dirty++
}

func (e *Editor) delRow(at int) {
	if at >= len(e.rows) {
		return
	}
	e.rows = append(e.rows[:at], e.rows[at+1:]...)
	for j := at; j < len(e.rows); j++ {
		e.rows[j].idx = j
	}
	e.dirty++
}

func (e *Editor) rowsToString() string {
	var buf bytes.Buffer
	for _, row := range e.rows {
		buf.WriteString(row.chars)
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (e *Editor) rowInsertChar(row *erow, at int, c byte) {
	if at > len(row.chars) {
		padding := at - len(row.chars)
		row.chars += strings.Repeat(" ", padding) + string(c)
	} else {
		row.chars = row.chars[:at] + string(c) + row.chars[at:]
	}
	e.updateRow(row)
	e.dirty++
}

func (e *Editor) rowAppendString(row *erow, s string) {
	row.chars += s
	e.updateRow(row)
	e.dirty++
}

func (e *Editor) rowDelChar(row *erow, at int) {
	if at >= len(row.chars) {
		return
	}
	row.chars = row.chars[:at] + row.chars[at+1:]
	e.updateRow(row)
	e.dirty++
}

// ---------- Editor operations ----------

func (e *Editor) insertChar(c byte) {
	if e.cy == len(e.rows) {
		e.insertRow(len(e.rows), "")
	}
	e.rowInsertChar(e.rows[e.cy], e.cx, c)
	e.cx++
}

func (e *Editor) insertNewline() {
	if e.cy == len(e.rows) {
		e.insertRow(len(e.rows), "")
	} else {
		row := e.rows[e.cy]
		at := e.cx
		if at > len(row.chars) {
			at = len(row.chars)
		}
		e.insertRow(e.cy+1, row.chars[at:])
		row = e.rows[e.cy]
		row.chars = row.chars[:at]
		e.updateRow(row)
	}
	e.cy++
	e.cx = 0
}

func (e *Editor) delChar() {
	if e.cy == len(e.rows) {
		return
	}
	if e.cx == 0 && e.cy == 0 {
		return
	}
	row := e.rows[e.cy]
	if e.cx > 0 {
		e.rowDelChar(row, e.cx-1)
		e.cx--
	} else {
		e.cx = len(e.rows[e.cy-1].chars)
		e.rowAppendString(e.rows[e.cy-1], row.chars)
		e.delRow(e.cy)
		e.cy--
	}
}

// ---------- File I/O ----------

// Open loads a file into the editor. A missing file is not an error: the
// editor starts with an empty buffer.
func (e *Editor) Open(filename string) error {
	e.dirty = 0
	e.filename = filename

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // new file
		}
		return err
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		e.insertRow(len(e.rows), line)
	}
	e.dirty = 0
	return nil
}

// Save writes the current buffer to disk. On failure the dirty flag is
// left set so the user can retry, and the error is surfaced on the status
// line.
func (e *Editor) Save() error {
	if e.filename == "" {
		return fmt.Errorf("no filename")
	}
	buf := e.rowsToString()
	err := os.WriteFile(e.filename, []byte(buf), 0644)
	if err != nil {
		e.SetStatusMessage("Can't save! I/O error: %s", err)
		return err
	}
	e.dirty = 0
	e.SetStatusMessage("%d bytes written on disk", len(buf))
	return nil
}

// SetStatusMessage sets the editor status message. It is shown on the
// message bar for five seconds.
func (e *Editor) SetStatusMessage(format string, args ...interface{}) {
	e.statusmsg = fmt.Sprintf(format, args...)
	e.statustime = time.Now()
}

// FileWasModified returns true if the file has unsaved changes.
func (e *Editor) FileWasModified() bool {
	return e.dirty > 0
}

// ---------- Cursor movement ----------

func (e *Editor) moveCursor(key int) {
	switch key {
	case arrowLeft:
		if e.cx > 0 {
			e.cx--
		} else if e.cy > 0 {
			e.cy--
			e.cx = e.rowLen(e.cy)
		}
	case arrowRight:
		if e.cx < e.rowLen(e.cy) {
			e.cx++
		} else if e.cy+1 < len(e.rows) {
			e.cy++
			e.cx = 0
		}
	case arrowUp:
		if e.cy > 0 {
			e.cy--
		}
	case arrowDown:
		if e.cy+1 < len(e.rows) {
			e.cy++
		}
	}
	// Snap the column back when landing on a shorter row.
	if l := e.rowLen(e.cy); e.cx > l {
		e.cx = l
	}
}

// ---------- Event processing ----------

func (e *Editor) processKeypress() bool {
	c := e.readKey()
	switch c {
	case keyEnter:
		e.insertNewline()
	case ctrlC, ctrlD:
		// Ignore
	case ctrlA, homeKey:
		e.cx = 0
	case ctrlE, endKey:
		e.cx = e.rowLen(e.cy)
	case ctrlQ:
		if e.dirty > 0 && e.quitTimes > 0 {
			e.SetStatusMessage("WARNING!!! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitTimes)
			e.quitTimes--
			return true
		}
		return false
	case ctrlS:
		e.Save()
	case ctrlF:
		e.find()
	case keyBackspace, ctrlH:
		e.delChar()
	case delKey:
		// Only delete when there is a character to the right; at the end
		// of the file the move is a no-op and so is the key.
		cx, cy := e.cx, e.cy
		e.moveCursor(arrowRight)
		if e.cx != cx || e.cy != cy {
			e.delChar()
		}
	case pageUp, pageDown:
		dir := arrowDown
		if c == pageUp {
			dir = arrowUp
		}
		for times := e.screenrows; times > 0; times-- {
			e.moveCursor(dir)
		}
	case arrowUp, arrowDown, arrowLeft, arrowRight:
		e.moveCursor(c)
	case resizeKey:
		e.updateWindowSize()
	case ctrlL, keyEsc:
		// Nothing
	default:
		if c >= 0 && c < 256 {
			e.insertChar(byte(c))
		}
	}
	e.quitTimes = kiloQuitTimes
	return true
}

// Run is the main editor loop. It enables raw mode, switches to the
// alternate screen buffer, and processes keys until the user quits.
// The terminal is restored on exit, SIGTERM, and SIGINT.
func (e *Editor) Run() error {
	if err := e.enableRawMode(); err != nil {
		return err
	}

	// Switch to alternate screen buffer
	syscall.Write(e.out, []byte("\x1b[?1049h"))

	cleanup := func() {
		// Leave alternate screen buffer and restore terminal
		syscall.Write(e.out, []byte("\x1b[?1049l"))
		e.DisableRawMode()
	}
	defer cleanup()

	// Handle SIGTERM/SIGINT to restore terminal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(0)
	}()

	e.SetStatusMessage("HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find")
	for {
		e.refreshScreen()
		if !e.processKeypress() {
			return nil
		}
	}
}
