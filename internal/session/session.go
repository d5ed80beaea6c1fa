// Package session owns all mutable state for one run of the tool: the active
// dataset, the staging area, filters, and operator preferences. Nothing
// outside this package mutates that state.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/distlab-cli/internal/analytics"
	"github.com/KaramelBytes/distlab-cli/internal/config"
	"github.com/KaramelBytes/distlab-cli/internal/ingest"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

// State is the staging workflow state.
type State int

const (
	StateIdle State = iota
	StateStaged
)

func (s State) String() string {
	if s == StateStaged {
		return "staged"
	}
	return "idle"
}

// Session is the single-operator state container.
type Session struct {
	ID  string
	Cfg *config.Global

	Active       *standardize.Table
	ActiveReport *standardize.Report

	Filters  analytics.FilterSpec
	Language string
	Theme    string

	state           State
	stagedRaw       *ingest.RawTable
	stagedSource    string
	stagedOverrides map[string]string
	Staged          *standardize.Table
	StagedReport    *standardize.Report

	keys          map[string]string
	defaultLoaded bool
}

// New creates an idle session with an empty active dataset.
func New(cfg *config.Global) *Session {
	empty, rep := standardize.Standardize(nil, "empty", nil, cfg.Weights())
	return &Session{
		ID:           uuid.NewString(),
		Cfg:          cfg,
		Active:       empty,
		ActiveReport: rep,
		Language:     cfg.Language,
		Theme:        cfg.Theme,
		keys:         make(map[string]string),
	}
}

// State returns the current staging state.
func (s *Session) State() State { return s.state }

// Preview parses and standardizes input into the staging area and moves the
// session to staged. Overrides carried from a prior staged state stay in
// effect, with the supplied ones merged on top; an idle session starts with
// only the supplied ones. The active dataset is untouched.
func (s *Session) Preview(text, source string, overrides map[string]string) (*standardize.Table, *standardize.Report) {
	merged := cloneOverrides(s.stagedOverrides)
	for k, v := range overrides {
		merged[k] = v
	}
	raw := ingest.Parse(text)
	t, rep := standardize.Standardize(raw, source, merged, s.Cfg.Weights())
	s.stagedRaw = raw
	s.stagedSource = source
	s.stagedOverrides = merged
	s.Staged = t
	s.StagedReport = rep
	s.state = StateStaged
	return t, rep
}

// ApplyMapping re-runs standardization on the staged raw table with
// additional mapping overrides merged over the carried ones. Parsing is not
// repeated. The session stays staged.
func (s *Session) ApplyMapping(overrides map[string]string) (*standardize.Table, *standardize.Report, error) {
	if s.state != StateStaged {
		return nil, nil, errors.New("nothing staged: run preview first")
	}
	if s.stagedOverrides == nil {
		s.stagedOverrides = make(map[string]string)
	}
	for k, v := range overrides {
		s.stagedOverrides[k] = v
	}
	t, rep := standardize.Standardize(s.stagedRaw, s.stagedSource, s.stagedOverrides, s.Cfg.Weights())
	s.Staged = t
	s.StagedReport = rep
	return t, rep, nil
}

// Import commits the staged dataset as the active dataset. It refuses when
// required fields are still missing, leaving the staged state intact so the
// mapping can be fixed and retried.
func (s *Session) Import() (*standardize.Report, error) {
	if s.state != StateStaged {
		return nil, errors.New("nothing staged: run preview first")
	}
	if missing := s.StagedReport.MissingRequired; len(missing) > 0 {
		return nil, fmt.Errorf("required fields unresolved: %s", strings.Join(missing, ", "))
	}
	rep := s.StagedReport
	s.Active = s.Staged
	s.ActiveReport = rep
	s.clearStaged()
	return rep, nil
}

// Cancel discards the staged state. The active dataset is untouched. Safe to
// call when nothing is staged.
func (s *Session) Cancel() {
	s.clearStaged()
}

func (s *Session) clearStaged() {
	s.stagedRaw = nil
	s.stagedSource = ""
	s.stagedOverrides = nil
	s.Staged = nil
	s.StagedReport = nil
	s.state = StateIdle
}

// UseDefault loads and standardizes the configured default dataset straight
// into the active dataset, once per session: repeated calls are no-ops and
// return a nil report. A missing or unreadable file is not fatal; the active
// dataset becomes empty with a warning in its report.
func (s *Session) UseDefault() (*standardize.Report, error) {
	if s.defaultLoaded {
		return nil, nil
	}
	s.defaultLoaded = true

	var text string
	var warning string
	if s.Cfg.DefaultDataset == "" {
		warning = "no default dataset configured"
	} else if b, err := os.ReadFile(s.Cfg.DefaultDataset); err != nil {
		warning = fmt.Sprintf("default dataset unavailable: %v", err)
	} else {
		text = ingest.DecodeBytes(b)
	}

	raw := ingest.Parse(text)
	t, rep := standardize.Standardize(raw, "default", nil, s.Cfg.Weights())
	if warning != "" {
		rep.Warnings = append(rep.Warnings, warning)
	}
	s.Active = t
	s.ActiveReport = rep
	return rep, nil
}

// SetKey stores a provider API key for this session only.
func (s *Session) SetKey(provider, key string) {
	s.keys[provider] = key
}

// Key returns the session-scoped key for a provider, if any.
func (s *Session) Key(provider string) string {
	return s.keys[provider]
}

func cloneOverrides(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
