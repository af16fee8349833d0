package model

// LibraryRule describes one convenience-library fragment built from a source
// root. An empty ExtraExclude keeps the default exclusion only; a non-empty
// value is OR-ed with it.
type LibraryRule struct {
	Root         Path
	Archive      string
	VarName      string
	ExtraExclude string
	LibAdd       []string
	LDFlags      []string
	RawTail      []string
}

// ProgramRule describes one installed-program fragment. Condition, when set,
// wraps the whole stanza in an automake conditional. The Data fields emit an
// installation-directory line plus a DATA assignment before the program
// entries.
type ProgramRule struct {
	Root        Path
	Condition   string
	Name        string
	Programs    []string
	Mans        []string
	DataDirLine string
	DataName    string
	DataFiles   []string
	Sources     []string
	LDAdd       []string
}

// Config carries every knob of a generation run. It replaces the original
// generator's module-level constants so builders receive their inputs
// explicitly; the tool is single-run and single-threaded, so the struct is
// treated as immutable once assembled.
type Config struct {
	// Host files and the managed-region markers inside them.
	MakefileAM  Path
	ConfigureAC Path
	BeginMarker string
	EndMarker   string

	// Fragment naming.
	FragmentName string
	StalePattern string

	// Discovery patterns.
	DefaultInclude string
	DefaultExclude string
	SourceInclude  string

	// Manifest roots, in generation order.
	IncludeRoots []Path
	Libraries    []LibraryRule
	Programs     []ProgramRule

	// Unit-test layout.
	UnitTestDir      Path
	TestHarness      string
	TestSourceGlob   string
	TestCXXFlags     []string
	TestBinaryPrefix string
	WrapperPrefix    string
	ExtraDistGlobs   []string
	HarnessLibGlobs  []string
	CheckPrograms    []string

	// Link-library lists, concatenated in LDADD order.
	LibCasm       []string
	BoostLibs     []string
	BoostTestLibs []string
	LibTesting    []string
}

// DefaultConfig returns the configuration matching the CASM repository
// layout the generator was written for.
func DefaultConfig() Config {
	libCasm := []string{"libcasm.la"}
	boostLibs := []string{
		"$(BOOST_SYSTEM_LIB)",
		"$(BOOST_FILESYSTEM_LIB)",
		"$(BOOST_PROGRAM_OPTIONS_LIB)",
		"$(BOOST_REGEX_LIB)",
		"$(BOOST_CHRONO_LIB)",
	}

	return Config{
		MakefileAM:  "Makefile.am",
		ConfigureAC: "configure.ac",
		BeginMarker: "# BEGIN MAKEMODULE",
		EndMarker:   "# END MAKEMODULE",

		FragmentName: "Makemodule.am",
		StalePattern: `Makemodule.am(\.test)*`,

		DefaultInclude: `.*`,
		DefaultExclude: `.*\.(dirstamp|gitignore|am|hide|old|orig|lo|Plo|o)`,
		SourceInclude:  `.*\.(c|cc|cpp|C)`,

		IncludeRoots: []Path{"include/casm", "include/ccasm"},
		Libraries: []LibraryRule{
			{
				Root:         "src/casm",
				Archive:      "libcasm.la",
				VarName:      "libcasm_la",
				ExtraExclude: `.*test_g(un)?zip.C`,
				LibAdd:       boostLibs,
				LDFlags:      []string{"-avoid-version", "$(BOOST_LDFLAGS)"},
				// The version object is rebuilt on every invocation so the
				// reported version never goes stale.
				RawTail: []string{"src/casm/version/autoversion.o: .FORCE"},
			},
			{
				Root:    "src/ccasm",
				Archive: "libccasm.la",
				VarName: "libccasm_la",
				LDFlags: []string{"-avoid-version"},
			},
		},
		Programs: []ProgramRule{
			{
				Root:     "apps/ccasm",
				Name:     "ccasm",
				Programs: []string{"ccasm"},
				Mans:     []string{"man/ccasm.1"},
				Sources:  []string{"apps/ccasm/ccasm.cpp"},
				LDAdd:    append(append([]string{}, libCasm...), boostLibs...),
			},
			{
				Root:        "apps/completer",
				Condition:   "ENABLE_BASH_COMPLETION",
				Name:        "casm_complete",
				Programs:    []string{"casm-complete"},
				DataDirLine: "bashcompletiondir=$(BASH_COMPLETION_DIR)",
				DataName:    "dist_bashcompletion",
				DataFiles:   []string{"apps/completer/casm"},
				Sources:     []string{"apps/completer/complete.cpp"},
				LDAdd:       append(append([]string{}, libCasm...), boostLibs...),
			},
		},

		UnitTestDir:      "tests/unit",
		TestHarness:      "tests/unit/unit_test.cpp",
		TestSourceGlob:   "*_test.cpp",
		TestCXXFlags:     []string{"$(AM_CXXFLAGS)", "-I$(top_srcdir)/tests/unit/"},
		TestBinaryPrefix: "casm_unit_",
		WrapperPrefix:    "run_test_",
		ExtraDistGlobs:   []string{"*.hh", "*.cc", "*.json", "*.txt"},
		HarnessLibGlobs:  []string{"*.cpp", "*.cc", "*.hh"},
		CheckPrograms:    []string{"ccasm"},

		LibCasm:       libCasm,
		BoostLibs:     boostLibs,
		BoostTestLibs: []string{"$(BOOST_UNIT_TEST_FRAMEWORK_LIB)"},
		LibTesting:    []string{"libcasmtesting.a"},
	}
}
