// File: generator/writer.go
package generator

import "strings"

const indentUnit = "    "

// writer accumulates output lines at the current brace depth.
type writer struct {
	lines []string
	cur   strings.Builder
	depth int
}

func (w *writer) write(s string) {
	w.cur.WriteString(s)
}

// trim drops trailing spaces from the pending line, so "return " followed
// by ";" renders as "return;".
func (w *writer) trim() {
	s := strings.TrimRight(w.cur.String(), " ")
	w.cur.Reset()
	w.cur.WriteString(s)
}

// newline ends the pending line. Empty lines are dropped.
func (w *writer) newline() {
	w.trim()
	if w.cur.Len() > 0 {
		w.lines = append(w.lines, strings.Repeat(indentUnit, w.depth)+w.cur.String())
	}
	w.cur.Reset()
}

func (w *writer) open() {
	w.newline()
	w.write("{")
	w.newline()
	w.depth++
}

func (w *writer) close() {
	w.newline()
	if w.depth > 0 {
		w.depth--
	}
	w.write("}")
	w.newline()
}

func (w *writer) String() string {
	w.newline()
	if len(w.lines) == 0 {
		return ""
	}
	return strings.Join(w.lines, "\n") + "\n"
}
