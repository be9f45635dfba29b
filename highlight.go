package kilo

import (
	"strings"
	"unicode"
)

// Syntax highlight types
const (
	hlNormal    = 0
	hlNonprint  = 1
	hlComment   = 2
	hlMLComment = 3
	hlKeyword1  = 4
	hlKeyword2  = 5
	hlString    = 6
	hlNumber    = 7
	hlMatch     = 8
)

const (
	hlHighlightStrings = 1 << 0
	hlHighlightNumbers = 1 << 1
)

// Syntax defines a syntax highlighting scheme.
type Syntax struct {
	FileMatch              []string
	Keywords               []string
	SingleLineCommentStart string
	MultiLineCommentStart  string
	MultiLineCommentEnd    string
	Flags                  int
}

// HLDB is the built-in syntax highlight database.
var HLDB = []Syntax{
	{
		FileMatch: []string{".c", ".h", ".cpp", ".hpp", ".cc"},
		Keywords: []string{
			// C keywords
			"auto", "break", "case", "continue", "default", "do", "else", "enum",
			"extern", "for", "goto", "if", "register", "return", "sizeof", "static",
			"struct", "switch", "typedef", "union", "volatile", "while", "NULL",
			// C++ keywords
			"alignas", "alignof", "and", "and_eq", "asm", "bitand", "bitor", "class",
			"compl", "constexpr", "const_cast", "deltype", "delete", "dynamic_cast",
			"explicit", "export", "false", "friend", "inline", "mutable", "namespace",
			"new", "noexcept", "not", "not_eq", "nullptr", "operator", "or", "or_eq",
			"private", "protected", "public", "reinterpret_cast", "static_assert",
			"static_cast", "template", "this", "thread_local", "throw", "true", "try",
			"typeid", "typename", "virtual", "xor", "xor_eq",
			// C types (trailing | means keyword2)
			"int|", "long|", "double|", "float|", "char|", "unsigned|", "signed|",
			"void|", "short|", "auto|", "const|", "bool|",
		},
		SingleLineCommentStart: "//",
		MultiLineCommentStart:  "/*",
		MultiLineCommentEnd:    "*/",
		Flags:                  hlHighlightStrings | hlHighlightNumbers,
	},
	{
		FileMatch: []string{".go"},
		Keywords: []string{
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if",
			"import", "interface", "map", "package", "range", "return",
			"select", "struct", "switch", "type", "var",
			// Types (keyword2)
			"bool|", "byte|", "complex64|", "complex128|", "error|",
			"float32|", "float64|", "int|", "int8|", "int16|", "int32|",
			"int64|", "rune|", "string|", "uint|", "uint8|", "uint16|",
			"uint32|", "uint64|", "uintptr|", "any|",
			// Constants
			"true|", "false|", "nil|", "iota|",
			// Built-in functions
			"append", "cap", "close", "copy", "delete", "len", "make",
			"new", "panic", "print", "println", "recover",
		},
		SingleLineCommentStart: "//",
		MultiLineCommentStart:  "/*",
		MultiLineCommentEnd:    "*/",
		Flags:                  hlHighlightStrings | hlHighlightNumbers,
	},
	{
		FileMatch: []string{".py"},
		Keywords: []string{
			"and", "as", "assert", "async", "await", "break", "class",
			"continue", "def", "del", "elif", "else", "except", "finally",
			"for", "from", "global", "if", "import", "in", "is", "lambda",
			"nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield",
			// Types / built-ins (keyword2)
			"True|", "False|", "None|",
			"int|", "float|", "str|", "bool|", "list|", "dict|", "set|",
			"tuple|", "bytes|", "type|", "object|", "range|",
			// Built-in functions
			"print", "len", "input", "open", "super", "self",
			"isinstance", "issubclass", "hasattr", "getattr", "setattr",
		},
		SingleLineCommentStart: "# ",
		Flags:                  hlHighlightStrings | hlHighlightNumbers,
	},
}

func isSeparator(c byte) bool {
	return c == 0 || c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
		strings.ContainsRune(",.()+-/*=~%[];", rune(c))
}

// updateSyntax rescans a row, then walks forward while a rescan keeps
// flipping a row's trailing open-comment state. A single edit cascades
// exactly as far as the rows whose state it actually changes, with no
// recursion, so stack depth is independent of file size.
func (e *Editor) updateSyntax(row *erow) {
	for at := row.idx; at < len(e.rows); at++ {
		r := e.rows[at]
		oc := e.scanRow(r)
		changed := r.hlOC != oc
		r.hlOC = oc
		if !changed {
			break
		}
	}
}

// scanRow classifies every rendered character of one row and reports
// whether the row ends inside an unclosed multi-line comment. The comment
// state is seeded from the previous row's cached value.
func (e *Editor) scanRow(row *erow) bool {
	row.hl = make([]byte, len(row.render))

	// Control bytes get the nonprint class whether or not a scheme is
	// selected; the renderer relies on it for the inverse placeholder.
	if e.syntax == nil {
		for i := 0; i < len(row.render); i++ {
			c := row.render[i]
			if c < 32 || (c >= 127 && !unicode.IsPrint(rune(c))) {
				row.hl[i] = hlNonprint
			}
		}
		return false
	}

	keywords := e.syntax.Keywords
	scs := e.syntax.SingleLineCommentStart
	mcs := e.syntax.MultiLineCommentStart
	mce := e.syntax.MultiLineCommentEnd

	r := row.render
	i := 0
	for i < len(r) && (r[i] == ' ' || r[i] == '\t') {
		i++
	}

	prevSep := true
	inString := byte(0)
	inComment := false

	if row.idx > 0 && e.rows[row.idx-1].hlOC {
		inComment = true
	}

	for i < len(r) {
		c := r[i]

		// Handle single line comments
		if prevSep && inString == 0 && !inComment && scs != "" &&
			strings.HasPrefix(r[i:], scs) {
			for j := i; j < len(r); j++ {
				row.hl[j] = hlComment
			}
			return false
		}

		// Handle multi-line comments
		if inComment {
			row.hl[i] = hlMLComment
			if len(mce) == 2 && i+1 < len(r) && c == mce[0] && r[i+1] == mce[1] {
				row.hl[i+1] = hlMLComment
				i += 2
				inComment = false
				prevSep = true
				continue
			}
			prevSep = false
			i++
			continue
		} else if len(mcs) == 2 && i+1 < len(r) && c == mcs[0] && r[i+1] == mcs[1] {
			row.hl[i] = hlMLComment
			row.hl[i+1] = hlMLComment
			i += 2
			inComment = true
			prevSep = false
			continue
		}

		// Handle strings
		if inString != 0 {
			row.hl[i] = hlString
			if c == '\\' && i+1 < len(r) {
				row.hl[i+1] = hlString
				i += 2
				prevSep = false
				continue
			}
			if c == inString {
				inString = 0
			}
			i++
			continue
		} else if e.syntax.Flags&hlHighlightStrings != 0 && (c == '"' || c == '\'') {
			inString = c
			row.hl[i] = hlString
			i++
			prevSep = false
			continue
		}

		// Handle non-printable chars
		if c < 32 && c != '\t' {
			row.hl[i] = hlNonprint
			i++
			prevSep = false
			continue
		}
		if !unicode.IsPrint(rune(c)) && c >= 127 {
			row.hl[i] = hlNonprint
			i++
			prevSep = false
			continue
		}

		// Handle numbers
		if e.syntax.Flags&hlHighlightNumbers != 0 {
			if (c >= '0' && c <= '9' && (prevSep || (i > 0 && row.hl[i-1] == hlNumber))) ||
				(c == '.' && i > 0 && row.hl[i-1] == hlNumber) {
				row.hl[i] = hlNumber
				i++
				prevSep = false
				continue
			}
		}

		// Handle keywords
		if prevSep {
			matched := false
			for _, kw := range keywords {
				kw2 := false
				kwClean := kw
				if strings.HasSuffix(kw, "|") {
					kw2 = true
					kwClean = kw[:len(kw)-1]
				}
				klen := len(kwClean)
				if i+klen <= len(r) && r[i:i+klen] == kwClean {
					if i+klen == len(r) || isSeparator(r[i+klen]) {
						hlType := byte(hlKeyword1)
						if kw2 {
							hlType = hlKeyword2
						}
						for j := 0; j < klen; j++ {
							row.hl[i+j] = hlType
						}
						i += klen
						matched = true
						break
					}
				}
			}
			if matched {
				prevSep = false
				continue
			}
		}

		prevSep = isSeparator(c)
		i++
	}

	return inComment
}

func syntaxToColor(hl byte) int {
	switch hl {
	case hlComment, hlMLComment:
		return 36 // cyan
	case hlKeyword1:
		return 33 // yellow
	case hlKeyword2:
		return 32 // green
	case hlString:
		return 35 // magenta
	case hlNumber:
		return 31 // red
	case hlMatch:
		return 34 // blue
	default:
		return 37 // white
	}
}

// SelectSyntaxHighlight selects the syntax scheme based on filename.
func (e *Editor) SelectSyntaxHighlight(filename string) {
	for i := range HLDB {
		s := &HLDB[i]
		for _, pattern := range s.FileMatch {
			if strings.HasPrefix(pattern, ".") {
				if strings.HasSuffix(filename, pattern) {
					e.syntax = s
					return
				}
			} else {
				if strings.Contains(filename, pattern) {
					e.syntax = s
					return
				}
			}
		}
	}
}
