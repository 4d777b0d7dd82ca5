package pipeline

import (
	"sync"

	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/source"
)

// Message asks a [State] to recompute. The set of messages is closed.
type Message interface {
	isMessage()
}

// HistoryUpdated carries a fresh set of commit records. The whole layout is
// rebuilt from them.
type HistoryUpdated struct {
	Records   []dag.Record
	Reference dag.ID
	Refs      []source.Ref
}

// ReferenceChanged selects another ancestry reference. Only the annotation
// is recomputed; lanes and order stay as they are.
type ReferenceChanged struct {
	Reference dag.ID
}

func (HistoryUpdated) isMessage()   {}
func (ReferenceChanged) isMessage() {}

// Generation identifies one recomputation started with [State.Begin].
type Generation uint64

// State owns the current [Result] of an interactive session. A failed
// recomputation leaves the current result in place, so a host can keep
// showing the last good rows next to the error.
//
// Work that runs off the host's event loop is bracketed by Begin and Accept.
// Only the most recently begun generation is accepted; results of older
// in-flight work are dropped.
type State struct {
	mu      sync.Mutex
	current *Result
	err     error
	issued  Generation
	// refGen is the generation that was newest when the reference last
	// changed. Results begun at or before it are re-annotated on Accept.
	refGen Generation
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// Current returns the current result, nil before the first successful
// recomputation.
func (s *State) Current() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Err returns the error of the last recomputation, nil if it succeeded.
func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Apply recomputes synchronously. It returns the current result, which is
// the previous one when err is non-nil. A HistoryUpdated also supersedes
// any in-flight generation.
func (s *State) Apply(msg Message) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m := msg.(type) {
	case HistoryUpdated:
		res, err := BuildLayout(m.Records, m.Reference)
		if err != nil {
			s.err = err
			return s.current, err
		}
		res.Refs = m.Refs
		s.issued++
		s.current, s.err = res, nil

	case ReferenceChanged:
		if s.current == nil {
			s.err = errs.New(errs.ErrCodeInvalidInput, "no history loaded")
			return nil, s.err
		}
		s.current, s.err = s.current.WithReference(m.Reference), nil
		s.refGen = s.issued
	}
	return s.current, nil
}

// Begin starts a new generation of off-loop work and supersedes every
// earlier one.
func (s *State) Begin() Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Stale reports whether gen has been superseded.
func (s *State) Stale(gen Generation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.issued
}

// Accept installs res if gen is still the newest generation and reports
// whether it did. If the reference changed while the work was in flight the
// result is re-annotated for the newer reference.
func (s *State) Accept(gen Generation, res *Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued || res == nil {
		return false
	}
	if s.current != nil && s.refGen >= gen {
		res = res.WithReference(s.current.Requested)
	}
	s.current, s.err = res, nil
	return true
}

// Fail records err for gen unless gen is stale. The current result is kept.
func (s *State) Fail(gen Generation, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued {
		return false
	}
	s.err = err
	return true
}
