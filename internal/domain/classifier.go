// Package domain implements the build-manifest generation pipeline: file
// discovery, manifest builders, fragment rendering, and host-file splicing.
package domain

import (
	"fmt"
	"regexp"

	m "makemod.dev/pkg/makemod/internal/model"
)

// PathClassifier decides whether a single basename belongs in a manifest.
// A name matches when the include pattern matches a prefix of it and the
// exclude pattern does not; exclusion wins when both match. Pure, no I/O.
type PathClassifier struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// NewPathClassifier compiles the pattern pair. An invalid expression is a
// construction-time error; there is no lazy compilation.
func NewPathClassifier(pattern m.FilePattern) (*PathClassifier, error) {
	include, err := compilePrefix(pattern.Include)
	if err != nil {
		return nil, fmt.Errorf("include pattern %q: %w", pattern.Include, err)
	}

	exclude, err := compilePrefix(pattern.Exclude)
	if err != nil {
		return nil, fmt.Errorf("exclude pattern %q: %w", pattern.Exclude, err)
	}

	return &PathClassifier{include: include, exclude: exclude}, nil
}

// compilePrefix anchors pat at the start of the subject: a match must begin
// at position 0 but need not cover the whole name.
func compilePrefix(pat string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + pat + `)`)
}

// Matches reports whether basename is accepted. A name matching neither
// pattern is simply rejected, never an error.
func (c *PathClassifier) Matches(basename string) bool {
	return c.include.MatchString(basename) && !c.exclude.MatchString(basename)
}
