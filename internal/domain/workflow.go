package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"makemod.dev/pkg/makemod/internal/adapter"
	m "makemod.dev/pkg/makemod/internal/model"
)

// Workflow sequences a full generation run over the repository the process
// is currently rooted in. The run is a one-shot batch: stale fragments are
// removed first, every fragment is regenerated, then the two host files get
// their managed regions rewritten. Each step is fatal on error; re-running
// after a fix is the recovery path. The tool must not run concurrently with
// itself or with the build it configures.
type Workflow interface {
	Generate() (m.Summary, error)
}

type workflow struct {
	fs  adapter.ModuleFSAdapter
	cfg m.Config
}

// NewWorkflow wires a workflow to a filesystem adapter and configuration.
func NewWorkflow(fs adapter.ModuleFSAdapter, cfg m.Config) Workflow {
	return &workflow{fs: fs, cfg: cfg}
}

func (w *workflow) Generate() (m.Summary, error) {
	// Deletion must fully complete before any generation so stale fragments
	// never accumulate next to fresh ones.
	if err := w.removeStale(); err != nil {
		return m.Summary{}, err
	}

	var summary m.Summary

	var fragments []m.Path

	record := func(frag m.Path, fw *FragmentWriter) {
		fragments = append(fragments, frag)
		summary.Fragments = append(summary.Fragments, m.FragmentSummary{
			Path:     frag,
			Bindings: fw.Bindings(),
			Files:    fw.Values(),
		})
	}

	defaultClassifier, err := NewPathClassifier(m.FilePattern{
		Include: w.cfg.DefaultInclude,
		Exclude: w.cfg.DefaultExclude,
	})
	if err != nil {
		return m.Summary{}, err
	}

	headers := NewHeaderManifestBuilder(NewTreeScanner(w.fs, defaultClassifier))

	for _, root := range w.cfg.IncludeRoots {
		slog.Info("building header manifest", "root", root)

		fw := NewFragmentWriter()
		if err := headers.Build(fw, root); err != nil {
			return m.Summary{}, err
		}

		frag, err := w.writeFragment(root, fw)
		if err != nil {
			return m.Summary{}, err
		}

		record(frag, fw)
	}

	libraries := NewLibraryManifestBuilder(w.fs, w.cfg)

	for _, rule := range w.cfg.Libraries {
		slog.Info("building library manifest", "root", rule.Root, "archive", rule.Archive)

		fw := NewFragmentWriter()
		if err := libraries.Build(fw, rule); err != nil {
			return m.Summary{}, err
		}

		frag, err := w.writeFragment(rule.Root, fw)
		if err != nil {
			return m.Summary{}, err
		}

		record(frag, fw)
	}

	programs := NewProgramManifestBuilder()

	for _, rule := range w.cfg.Programs {
		slog.Info("building program manifest", "root", rule.Root, "program", rule.Name)

		fw := NewFragmentWriter()
		programs.Build(fw, rule)

		frag, err := w.writeFragment(rule.Root, fw)
		if err != nil {
			return m.Summary{}, err
		}

		record(frag, fw)
	}

	discoverer := NewTestGroupDiscoverer(w.fs, w.cfg)

	groups, err := discoverer.Discover()
	if err != nil {
		return m.Summary{}, err
	}

	fw := NewFragmentWriter()
	if err := discoverer.RenderHarness(fw); err != nil {
		return m.Summary{}, err
	}

	for _, g := range groups {
		discoverer.RenderGroup(fw, g)

		wrapper := discoverer.WrapperPath(g)
		if err := w.fs.WriteFile(wrapper, []byte(discoverer.WrapperBody(g)), 0o644); err != nil {
			return m.Summary{}, fmt.Errorf("write run wrapper %s: %w", wrapper, err)
		}

		summary.Groups = append(summary.Groups, g.Name)
	}

	frag, err := w.writeFragment(w.cfg.UnitTestDir, fw)
	if err != nil {
		return m.Summary{}, err
	}

	record(frag, fw)

	splicer := NewRegionSplicer(w.fs)

	includes := make([]string, 0, len(fragments))
	for _, f := range fragments {
		includes = append(includes, "include $(srcdir)/"+string(f)+"\n")
	}

	if err := splicer.Splice(w.cfg.MakefileAM, w.cfg.BeginMarker, w.cfg.EndMarker, includes); err != nil {
		return m.Summary{}, err
	}

	registrations := make([]string, 0, len(groups))

	for _, g := range groups {
		wrapper := string(g.Dir) + "/" + g.WrapperName
		registrations = append(registrations, "AC_CONFIG_FILES(["+wrapper+"], [chmod +x "+wrapper+"])\n")
	}

	if err := splicer.Splice(w.cfg.ConfigureAC, w.cfg.BeginMarker, w.cfg.EndMarker, registrations); err != nil {
		return m.Summary{}, err
	}

	slog.Info("generation complete", "fragments", len(fragments), "groups", len(groups))

	return summary, nil
}

// writeFragment writes the rendered fragment into root and returns its path.
func (w *workflow) writeFragment(root m.Path, fw *FragmentWriter) (m.Path, error) {
	frag := w.fs.JoinPath(string(root), w.cfg.FragmentName)

	if err := w.fs.WriteFile(frag, fw.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write fragment %s: %w", frag, err)
	}

	return m.Path(filepath.ToSlash(string(frag))), nil
}

// removeStale deletes every previously generated fragment anywhere under
// the repository root, matched by basename against the configured pattern.
func (w *workflow) removeStale() error {
	stale, err := compilePrefix(w.cfg.StalePattern)
	if err != nil {
		return fmt.Errorf("stale pattern %q: %w", w.cfg.StalePattern, err)
	}

	return w.fs.Walk(".", true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !stale.MatchString(filepath.Base(path)) {
			return nil
		}

		slog.Debug("removing stale fragment", "path", path)

		if err := w.fs.Remove(m.Path(path)); err != nil {
			return fmt.Errorf("remove stale fragment %s: %w", path, err)
		}

		return nil
	})
}
