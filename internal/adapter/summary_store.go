package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "makemod.dev/pkg/makemod/internal/model"
)

// SummaryStore persists the result of a generation run so CI steps can
// inspect what the last run produced.
type SummaryStore interface {
	Save(path m.Path, summary m.Summary) error
	Load(path m.Path) (m.Summary, error)
}

type yamlSummaryStore struct{}

// NewSummaryStore returns a SummaryStore backed by a YAML file.
func NewSummaryStore() SummaryStore {
	return &yamlSummaryStore{}
}

func (s *yamlSummaryStore) Save(path m.Path, summary m.Summary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}

	return nil
}

func (s *yamlSummaryStore) Load(path m.Path) (m.Summary, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Summary{}, fmt.Errorf("read summary %s: %w", path, err)
	}

	var summary m.Summary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return m.Summary{}, fmt.Errorf("parse summary %s: %w", path, err)
	}

	return summary, nil
}
