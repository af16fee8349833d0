package domain

import (
	"makemod.dev/pkg/makemod/internal/adapter"
	m "makemod.dev/pkg/makemod/internal/model"
)

// LibraryManifestBuilder emits the fragment for one convenience library:
// the LTLIBRARIES registration, the scanned SOURCES list, and the link
// flags the rule carries.
type LibraryManifestBuilder struct {
	fs  adapter.ModuleFSAdapter
	cfg m.Config
}

// NewLibraryManifestBuilder wires a builder to the filesystem and config.
func NewLibraryManifestBuilder(fs adapter.ModuleFSAdapter, cfg m.Config) *LibraryManifestBuilder {
	return &LibraryManifestBuilder{fs: fs, cfg: cfg}
}

// Build renders rule into fw. Sources are discovered with the configured
// source-extension pattern; a rule-specific extra exclusion is OR-ed with
// the default one.
func (b *LibraryManifestBuilder) Build(fw *FragmentWriter, rule m.LibraryRule) error {
	exclude := b.cfg.DefaultExclude
	if rule.ExtraExclude != "" {
		exclude = "(" + exclude + ")|(" + rule.ExtraExclude + ")"
	}

	classifier, err := NewPathClassifier(m.FilePattern{Include: b.cfg.SourceInclude, Exclude: exclude})
	if err != nil {
		return err
	}

	files, err := NewTreeScanner(b.fs, classifier).Scan(rule.Root)
	if err != nil {
		return err
	}

	sources := make([]string, 0, len(files))
	for _, f := range files {
		sources = append(sources, string(f.Path))
	}

	fw.Append("lib_LTLIBRARIES", []string{rule.Archive})
	fw.Assign(rule.VarName+"_SOURCES", sources)
	fw.Assign(rule.VarName+"_LIBADD", rule.LibAdd)
	fw.Assign(rule.VarName+"_LDFLAGS", rule.LDFlags)

	for _, raw := range rule.RawTail {
		fw.Raw(raw + "\n\n")
	}

	return nil
}

// ProgramManifestBuilder emits the fragment for one installed program,
// optionally wrapped in an automake conditional.
type ProgramManifestBuilder struct{}

// NewProgramManifestBuilder returns a builder; program rules carry all of
// their inputs, so no collaborators are needed.
func NewProgramManifestBuilder() *ProgramManifestBuilder {
	return &ProgramManifestBuilder{}
}

// Build renders rule into fw.
func (b *ProgramManifestBuilder) Build(fw *FragmentWriter, rule m.ProgramRule) {
	if rule.Condition != "" {
		fw.Raw("if " + rule.Condition + "\n\n")
	}

	if rule.DataDirLine != "" {
		fw.Raw(rule.DataDirLine + "\n\n")
	}

	if rule.DataName != "" {
		fw.Assign(rule.DataName+"_DATA", rule.DataFiles)
	}

	fw.Append("bin_PROGRAMS", rule.Programs)
	fw.Append("man1_MANS", rule.Mans)
	fw.Assign(rule.Name+"_SOURCES", rule.Sources)
	fw.Assign(rule.Name+"_LDADD", rule.LDAdd)

	if rule.Condition != "" {
		fw.Raw("endif\n")
	}
}
