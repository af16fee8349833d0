// Package model defines the plain data types shared by the generation pipeline.
package model

// Path represents a file system path.
type Path string

// FilePattern pairs an inclusion and an exclusion regular expression.
// Both are matched against basenames with anchored-prefix semantics;
// exclusion wins when both match.
type FilePattern struct {
	Include string
	Exclude string
}

// DiscoveredFile is a single file accepted by a tree scan. Path keeps the
// scan-root prefix and uses forward slashes; Dir is the immediate parent
// directory. Ordering follows the traversal, not any sort.
type DiscoveredFile struct {
	Path Path
	Dir  Path
}

// Operator selects how a variable binding combines with prior state.
type Operator string

// Available Operator values.
const (
	OpAssign Operator = "="
	OpAppend Operator = "+="
)

// VariableBinding is one NAME <op> value... assignment in a build fragment.
type VariableBinding struct {
	Name   string
	Op     Operator
	Values []string
}

// TestGroup is one unit-test directory compiled into a single check binary
// and run through one generated wrapper script. Groups are discovered fresh
// on every run and never persisted between runs.
type TestGroup struct {
	Name        string
	Dir         Path
	TestSources []string
	ExtraDist   []string
	BinaryName  string
	WrapperName string
}

// FragmentSummary records one written build fragment.
type FragmentSummary struct {
	Path     Path `yaml:"path"`
	Bindings int  `yaml:"bindings"`
	Files    int  `yaml:"files"`
}

// Summary is the result of a full generation run.
type Summary struct {
	Fragments []FragmentSummary `yaml:"fragments"`
	Groups    []string          `yaml:"groups"`
}

// TotalFiles sums the file counts of all fragments.
func (s Summary) TotalFiles() int {
	total := 0
	for _, f := range s.Fragments {
		total += f.Files
	}

	return total
}

// TotalBindings sums the variable counts of all fragments.
func (s Summary) TotalBindings() int {
	total := 0
	for _, f := range s.Fragments {
		total += f.Bindings
	}

	return total
}
