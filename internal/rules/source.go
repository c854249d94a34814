package rules

import (
	"os"
	"time"

	"github.com/biirving/focus/internal/logging"
)

// DefaultText is used when no rule file exists yet.
const DefaultText = "No focus rules defined. Monitor all activity."

// Source loads a rule file and republishes an immutable Set snapshot when the
// file changes on disk. Change detection is by modification time, checked
// once per analysis tick by the monitor.
type Source struct {
	path  string
	log   *logging.Logger
	mtime time.Time

	set      *Set
	warnings []Warning
}

// NewSource creates a Source and performs the initial load.
func NewSource(path string, log *logging.Logger) *Source {
	s := &Source{path: path, log: log}
	s.load()
	return s
}

func (s *Source) load() {
	info, err := os.Stat(s.path)
	if err != nil {
		s.set, s.warnings = Parse(DefaultText)
		s.mtime = time.Time{}
		s.log.Debug("rule file missing, using default rules", "path", s.path)
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn("failed to read rule file, keeping previous rules", "path", s.path, "error", err)
		return
	}

	s.mtime = info.ModTime()
	s.set, s.warnings = Parse(string(data))

	for _, w := range s.warnings {
		s.log.Warn("rule parse warning", "path", s.path, "warning", w.String())
	}
	s.log.Info("rules loaded", "path", s.path, "budgets", len(s.set.Budgets), "warnings", len(s.warnings))
}

// ReloadIfChanged re-reads the file if its mtime advanced. It returns the
// current snapshot and whether it was just replaced.
func (s *Source) ReloadIfChanged() (*Set, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return s.set, false
	}
	if !info.ModTime().After(s.mtime) {
		return s.set, false
	}
	s.load()
	return s.set, true
}

// Current returns the latest published snapshot.
func (s *Source) Current() *Set {
	return s.set
}

// Warnings returns the parse warnings from the latest load.
func (s *Source) Warnings() []Warning {
	return s.warnings
}
