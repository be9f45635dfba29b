package kilo

import (
	"fmt"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// Key constants
const (
	ctrlA        = 1
	ctrlC        = 3
	ctrlD        = 4
	ctrlE        = 5
	ctrlF        = 6
	ctrlH        = 8
	keyTab       = 9
	ctrlL        = 12
	keyEnter     = 13
	ctrlQ        = 17
	ctrlS        = 19
	keyEsc       = 27
	keyBackspace = 127

	arrowLeft  = 1000
	arrowRight = 1001
	arrowUp    = 1002
	arrowDown  = 1003
	delKey     = 1004
	homeKey    = 1005
	endKey     = 1006
	pageUp     = 1007
	pageDown   = 1008
	resizeKey  = 1009
)

// resizePending is set by the SIGWINCH handler goroutine and drained by
// readKey, so a resize is only ever acted on between keystrokes.
var resizePending int32

func (e *Editor) enableRawMode() error {
	if e.rawmode {
		return nil
	}
	orig, err := unix.IoctlGetTermios(e.in, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("not a tty")
	}
	e.origTermios = *orig

	raw := *orig
	// Input modes
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output modes
	raw.Oflag &^= unix.OPOST
	// Control modes
	raw.Cflag |= unix.CS8
	// Local modes
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// Control chars: read returns as soon as a byte arrives, or after a
	// tenth of a second with nothing.
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(e.in, ioctlWriteTermios, &raw); err != nil {
		return err
	}
	e.rawmode = true
	return nil
}

// DisableRawMode restores the terminal to its original mode.
func (e *Editor) DisableRawMode() {
	if e.rawmode {
		unix.IoctlSetTermios(e.in, ioctlWriteTermios, &e.origTermios)
		e.rawmode = false
	}
}

// readByte performs one read attempt. A zero-byte result means the VTIME
// poll expired with no input.
func (e *Editor) readByte(buf []byte) (int, error) {
	return syscall.Read(e.in, buf)
}

func (e *Editor) readKey() int {
	buf := make([]byte, 1)
	for {
		if atomic.SwapInt32(&resizePending, 0) != 0 {
			return resizeKey
		}
		n, err := e.readByte(buf)
		if n == 1 {
			break
		}
		if err != nil && err != syscall.EAGAIN && err != syscall.EINTR {
			return -1
		}
	}
	c := int(buf[0])
	if c == keyEsc {
		// Lookahead reads use the same short-timeout semantics as the
		// outer read; a missing byte resolves the sequence as Escape.
		seq := make([]byte, 3)
		n, _ := e.readByte(seq[0:1])
		if n == 0 {
			return keyEsc
		}
		n, _ = e.readByte(seq[1:2])
		if n == 0 {
			return keyEsc
		}
		if seq[0] == '[' {
			if seq[1] >= '0' && seq[1] <= '9' {
				n, _ = e.readByte(seq[2:3])
				if n == 0 {
					return keyEsc
				}
				if seq[2] == '~' {
					switch seq[1] {
					case '3':
						return delKey
					case '5':
						return pageUp
					case '6':
						return pageDown
					}
				}
			} else {
				switch seq[1] {
				case 'A':
					return arrowUp
				case 'B':
					return arrowDown
				case 'C':
					return arrowRight
				case 'D':
					return arrowLeft
				case 'H':
					return homeKey
				case 'F':
					return endKey
				}
			}
		} else if seq[0] == 'O' {
			switch seq[1] {
			case 'H':
				return homeKey
			case 'F':
				return endKey
			}
		}
		return keyEsc
	}
	return c
}

// getCursorPosition asks the terminal where the cursor is and parses the
// reply. Used only by the window-size fallback.
func (e *Editor) getCursorPosition() (int, int, error) {
	if _, err := syscall.Write(e.out, []byte("\x1b[6n")); err != nil {
		return 0, 0, err
	}
	var buf [32]byte
	i := 0
	for i < len(buf)-1 {
		n, _ := e.readByte(buf[i : i+1])
		if n != 1 || buf[i] == 'R' {
			break
		}
		i++
	}
	if buf[0] != keyEsc || buf[1] != '[' {
		return 0, 0, fmt.Errorf("failed to parse cursor position")
	}
	var rows, cols int
	if _, err := fmt.Sscanf(string(buf[2:i]), "%d;%d", &rows, &cols); err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

func (e *Editor) getWindowSize() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(e.out, unix.TIOCGWINSZ)
	if err == nil && ws.Col != 0 {
		return int(ws.Row), int(ws.Col), nil
	}
	// The fallback reads the terminal's reply byte by byte, which only
	// works under the raw-mode read settings. Before raw mode a failed
	// ioctl is fatal.
	if !e.rawmode {
		if err == nil {
			err = fmt.Errorf("ioctl reported zero columns")
		}
		return 0, 0, err
	}
	// Fallback: note the current position, move the cursor to the
	// bottom-right corner, ask where it ended up, then put it back.
	origRow, origCol, err := e.getCursorPosition()
	if err != nil {
		return 0, 0, err
	}
	if _, err := syscall.Write(e.out, []byte("\x1b[999C\x1b[999B")); err != nil {
		return 0, 0, err
	}
	rows, cols, err := e.getCursorPosition()
	if err != nil {
		return 0, 0, err
	}
	syscall.Write(e.out, []byte(fmt.Sprintf("\x1b[%d;%dH", origRow, origCol)))
	return rows, cols, nil
}

func (e *Editor) updateWindowSize() error {
	rows, cols, err := e.getWindowSize()
	if err != nil {
		return err
	}
	e.screenrows = rows - 2 // room for status and message bars
	if e.screenrows < 1 {
		e.screenrows = 1
	}
	e.screencols = cols
	return nil
}
