package kilo

import "strings"

// find runs the modal incremental search loop. The cursor and viewport
// are snapshotted at entry; Escape restores them, Enter keeps the match
// position. The current match's highlight span is overridden with hlMatch
// and the original classes are put back when the match moves or the
// session ends.
func (e *Editor) find() {
	query := make([]byte, 0, kiloQueryLen)
	lastMatch := -1
	findNext := 0
	savedHLLine := -1
	var savedHL []byte

	savedCx := e.cx
	savedCy := e.cy
	savedColoff := e.coloff
	savedRowoff := e.rowoff

	restoreHL := func() {
		if savedHL != nil && savedHLLine < len(e.rows) {
			copy(e.rows[savedHLLine].hl, savedHL)
		}
		savedHL = nil
	}

	for {
		e.SetStatusMessage("Search: %s (Use ESC/Arrows/Enter)", string(query))
		e.refreshScreen()

		c := e.readKey()
		switch {
		case c == delKey || c == ctrlH || c == keyBackspace:
			if len(query) > 0 {
				query = query[:len(query)-1]
			}
			lastMatch = -1
		case c == keyEsc || c == keyEnter:
			if c == keyEsc {
				e.cx = savedCx
				e.cy = savedCy
				e.coloff = savedColoff
				e.rowoff = savedRowoff
			}
			restoreHL()
			e.SetStatusMessage("")
			return
		case c == arrowRight || c == arrowDown:
			findNext = 1
		case c == arrowLeft || c == arrowUp:
			findNext = -1
		default:
			if c >= 32 && c < 127 && len(query) < kiloQueryLen {
				query = append(query, byte(c))
				lastMatch = -1
			}
		}

		if len(query) == 0 || len(e.rows) == 0 {
			findNext = 0
			continue
		}
		if lastMatch == -1 {
			findNext = 1
		}
		if findNext != 0 {
			// One circular pass over the rows, starting one step past
			// the previous match. No match leaves the cursor alone.
			current := lastMatch
			qstr := string(query)
			for i := 0; i < len(e.rows); i++ {
				current += findNext
				if current == -1 {
					current = len(e.rows) - 1
				} else if current == len(e.rows) {
					current = 0
				}
				matchOffset := strings.Index(e.rows[current].render, qstr)
				if matchOffset != -1 {
					restoreHL()
					row := e.rows[current]
					lastMatch = current
					savedHLLine = current
					savedHL = make([]byte, len(row.hl))
					copy(savedHL, row.hl)
					for j := 0; j < len(qstr) && matchOffset+j < len(row.hl); j++ {
						row.hl[matchOffset+j] = hlMatch
					}
					e.cy = current
					e.cx = matchOffset
					e.rowoff = current
					e.coloff = 0
					break
				}
			}
			findNext = 0
		}
	}
}
