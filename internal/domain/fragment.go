package domain

import (
	"bytes"
	"fmt"

	m "makemod.dev/pkg/makemod/internal/model"
)

// FragmentWriter renders the automake variable-assignment syntax shared by
// every manifest builder. Values are written one per line, two-space
// indented, each continued with a trailing backslash except the last, which
// is followed by a blank line. It is the single formatting primitive the
// builders funnel through, so input order is preserved exactly.
type FragmentWriter struct {
	buf      bytes.Buffer
	bindings int
	values   int
}

// NewFragmentWriter returns an empty writer.
func NewFragmentWriter() *FragmentWriter {
	return &FragmentWriter{}
}

// Assign writes NAME = value... An empty value list produces no output at all.
func (w *FragmentWriter) Assign(name string, values []string) {
	w.Binding(m.VariableBinding{Name: name, Op: m.OpAssign, Values: values})
}

// Append writes NAME += value... An empty value list produces no output at all.
func (w *FragmentWriter) Append(name string, values []string) {
	w.Binding(m.VariableBinding{Name: name, Op: m.OpAppend, Values: values})
}

// Binding renders one variable binding in line-continuation form.
func (w *FragmentWriter) Binding(b m.VariableBinding) {
	if len(b.Values) == 0 {
		return
	}

	fmt.Fprintf(&w.buf, "%s %s \\\n", b.Name, b.Op)

	for i, value := range b.Values {
		w.buf.WriteString("  " + value)

		if i == len(b.Values)-1 {
			w.buf.WriteString("\n\n")
		} else {
			w.buf.WriteString("\\\n")
		}
	}

	w.bindings++
	w.values += len(b.Values)
}

// Raw passes a pre-formatted line through untouched. Used for the few
// literal lines a fragment carries (conditionals, install-dir assignments,
// extra make rules).
func (w *FragmentWriter) Raw(line string) {
	w.buf.WriteString(line)
}

// Bytes returns the rendered fragment.
func (w *FragmentWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// Bindings returns the number of non-empty bindings written so far.
func (w *FragmentWriter) Bindings() int {
	return w.bindings
}

// Values returns the total number of values written across all bindings.
func (w *FragmentWriter) Values() int {
	return w.values
}
