package kilo

import (
	"bytes"
	"testing"
)

// seedSyntaxEditor builds an editor with the scheme for filename already
// selected, so rows get scanned as they are inserted.
func seedSyntaxEditor(filename string, lines []string) *Editor {
	e := &Editor{
		screencols: 80,
		screenrows: 24,
		quitTimes:  kiloQuitTimes,
	}
	e.SelectSyntaxHighlight(filename)
	for _, line := range lines {
		e.insertRow(len(e.rows), line)
	}
	e.dirty = 0
	return e
}

func allHL(row *erow, want byte) bool {
	for _, h := range row.hl {
		if h != want {
			return false
		}
	}
	return true
}

func TestSelectSyntaxHighlight(t *testing.T) {
	cases := []struct {
		filename string
		want     string // first FileMatch pattern, "" for none
	}{
		{"main.c", ".c"},
		{"editor.go", ".go"},
		{"kilo.py", ".py"},
		{"notes.txt", ""},
		{"Makefile", ""},
	}
	for _, tc := range cases {
		e := &Editor{}
		e.SelectSyntaxHighlight(tc.filename)
		if tc.want == "" {
			if e.syntax != nil {
				t.Errorf("%s: unexpected scheme %v", tc.filename, e.syntax.FileMatch)
			}
			continue
		}
		if e.syntax == nil || e.syntax.FileMatch[0] != tc.want {
			t.Errorf("%s: scheme = %v, want %s", tc.filename, e.syntax, tc.want)
		}
	}
}

func TestNoSyntaxLeavesRowsNormal(t *testing.T) {
	e := seedSyntaxEditor("notes.txt", []string{"int x = 42 // hi"})
	if !allHL(e.rows[0], hlNormal) {
		t.Fatalf("plain text file must not be highlighted: %v", e.rows[0].hl)
	}
}

func TestKeywordNeedsSeparatorBoundary(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"int x", "intx"})

	row := e.rows[0]
	for j := 0; j < 3; j++ {
		if row.hl[j] != hlKeyword2 {
			t.Fatalf("hl[%d] = %d, want keyword2", j, row.hl[j])
		}
	}
	if row.hl[3] != hlNormal || row.hl[4] != hlNormal {
		t.Fatalf("characters after the keyword must stay normal: %v", row.hl)
	}

	if !allHL(e.rows[1], hlNormal) {
		t.Fatalf("\"intx\" is an identifier, not a keyword: %v", e.rows[1].hl)
	}
}

func TestKeywordClasses(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"return x;"})
	row := e.rows[0]
	for j := 0; j < 6; j++ {
		if row.hl[j] != hlKeyword1 {
			t.Fatalf("hl[%d] = %d, want keyword1", j, row.hl[j])
		}
	}
}

func TestNumberAfterSeparator(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"x = 42", "3.14", "x9"})

	row := e.rows[0]
	if row.hl[4] != hlNumber || row.hl[5] != hlNumber {
		t.Fatalf("digits after a separator must be numbers: %v", row.hl)
	}

	if !allHL(e.rows[1], hlNumber) {
		t.Fatalf("decimal literal must be one number run: %v", e.rows[1].hl)
	}

	row = e.rows[2]
	if row.hl[1] != hlNormal {
		t.Fatalf("digit inside an identifier must stay normal: %v", row.hl)
	}
}

func TestStringWithEscapedQuote(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{`"a\"b"`})
	if !allHL(e.rows[0], hlString) {
		t.Fatalf("escaped quote must not terminate the string: %v", e.rows[0].hl)
	}
}

func TestUnterminatedStringRunsToEndOfRow(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{`x "abc`})
	row := e.rows[0]
	if row.hl[0] != hlNormal {
		t.Fatalf("hl[0] = %d", row.hl[0])
	}
	for j := 2; j < len(row.hl); j++ {
		if row.hl[j] != hlString {
			t.Fatalf("hl[%d] = %d, want string to end of row", j, row.hl[j])
		}
	}
}

func TestSingleLineComment(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"x // rest is comment"})
	row := e.rows[0]
	if row.hl[0] != hlNormal {
		t.Fatalf("hl[0] = %d", row.hl[0])
	}
	for j := 2; j < len(row.hl); j++ {
		if row.hl[j] != hlComment {
			t.Fatalf("hl[%d] = %d, want comment", j, row.hl[j])
		}
	}
}

func TestPythonHashComment(t *testing.T) {
	e := seedSyntaxEditor("a.py", []string{"# hello", "x = 1  # trailing"})
	if !allHL(e.rows[0], hlComment) {
		t.Fatalf("full-line comment: %v", e.rows[0].hl)
	}
	row := e.rows[1]
	for j := 7; j < len(row.hl); j++ {
		if row.hl[j] != hlComment {
			t.Fatalf("hl[%d] = %d, want trailing comment", j, row.hl[j])
		}
	}
}

func TestBlockCommentSpansRows(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"/* a", "b", "c */ d"})

	if !allHL(e.rows[0], hlMLComment) || !e.rows[0].hlOC {
		t.Fatalf("row 0: hl=%v hlOC=%v", e.rows[0].hl, e.rows[0].hlOC)
	}
	if !allHL(e.rows[1], hlMLComment) || !e.rows[1].hlOC {
		t.Fatalf("row 1: hl=%v hlOC=%v", e.rows[1].hl, e.rows[1].hlOC)
	}

	row := e.rows[2]
	for j := 0; j < 4; j++ {
		if row.hl[j] != hlMLComment {
			t.Fatalf("row 2 hl[%d] = %d, want comment through the closer", j, row.hl[j])
		}
	}
	if row.hl[5] != hlNormal {
		t.Fatalf("text after the closer must be normal: %v", row.hl)
	}
	if row.hlOC {
		t.Fatalf("row 2 must not end inside a comment")
	}
}

func TestOpeningCommentCascadesToEndOfFile(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"x", "y", "z"})
	e.rows[0].chars = "/*"
	e.updateRow(e.rows[0])

	for i, row := range e.rows {
		if !allHL(row, hlMLComment) || !row.hlOC {
			t.Fatalf("row %d must be inside the comment: hl=%v hlOC=%v", i, row.hl, row.hlOC)
		}
	}
}

func TestClosingCommentCascadeStopsAtStableRow(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"/* a", "b", "c */ d", "e"})

	// Sentinel: corrupt the last row's highlight. The rescan triggered
	// below stabilizes at row 2 (its trailing state was already false), so
	// the sentinel must survive.
	e.rows[3].hl[0] = hlNumber

	e.rows[0].chars = "/* a */"
	e.updateRow(e.rows[0])

	if e.rows[0].hlOC {
		t.Fatalf("row 0 now closes its comment")
	}
	if !allHL(e.rows[1], hlNormal) {
		t.Fatalf("row 1 left the comment: %v", e.rows[1].hl)
	}
	if e.rows[2].hl[2] != hlNormal {
		t.Fatalf("orphaned closer is plain text: %v", e.rows[2].hl)
	}
	if e.rows[3].hl[0] != hlNumber {
		t.Fatalf("cascade rescanned past the first stable row")
	}
}

func TestBlockCommentStateSurvivesInnerEdit(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"/* a", "b", "c */ d"})

	// Editing a row inside the comment must not disturb the boundary rows.
	e.rows[1].chars = "bb"
	e.updateRow(e.rows[1])

	if !allHL(e.rows[1], hlMLComment) || !e.rows[1].hlOC {
		t.Fatalf("edited row left the comment: %v", e.rows[1].hl)
	}
	row := e.rows[2]
	if row.hl[3] != hlMLComment || row.hl[5] != hlNormal {
		t.Fatalf("closing row changed: %v", row.hl)
	}
	if row.hlOC {
		t.Fatalf("closing row must still end outside the comment")
	}
}

func TestScanIsIdempotent(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"/* a", "int x = \"s\" // c"})
	for _, row := range e.rows {
		before := make([]byte, len(row.hl))
		copy(before, row.hl)
		oc := row.hlOC
		e.updateSyntax(row)
		if !bytes.Equal(before, row.hl) || oc != row.hlOC {
			t.Fatalf("row %d: rescan without an edit changed the result", row.idx)
		}
	}
}

func TestControlCharIsNonprint(t *testing.T) {
	e := seedSyntaxEditor("a.c", []string{"a\x01b"})
	row := e.rows[0]
	if row.hl[1] != hlNonprint {
		t.Fatalf("hl = %v, want nonprint at index 1", row.hl)
	}
	if row.hl[0] != hlNormal || row.hl[2] != hlNormal {
		t.Fatalf("neighbors must stay normal: %v", row.hl)
	}
}

func TestControlCharIsNonprintWithoutSyntax(t *testing.T) {
	e := seedSyntaxEditor("notes.txt", []string{"a\x01b\x7f"})
	row := e.rows[0]
	if row.hl[1] != hlNonprint || row.hl[3] != hlNonprint {
		t.Fatalf("hl = %v, want nonprint control bytes with no scheme selected", row.hl)
	}
	if row.hl[0] != hlNormal || row.hl[2] != hlNormal {
		t.Fatalf("printable bytes must stay normal: %v", row.hl)
	}
}

func TestSyntaxToColorMapping(t *testing.T) {
	cases := map[byte]int{
		hlComment:   36,
		hlMLComment: 36,
		hlKeyword1:  33,
		hlKeyword2:  32,
		hlString:    35,
		hlNumber:    31,
		hlMatch:     34,
		hlNormal:    37,
	}
	for hl, want := range cases {
		if got := syntaxToColor(hl); got != want {
			t.Errorf("syntaxToColor(%d) = %d, want %d", hl, got, want)
		}
	}
}
