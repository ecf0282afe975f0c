package filter

import (
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// Session holds an original canonical table and the view derived from it.
// It is owned by one caller and is not safe for concurrent use.
type Session struct {
	original *model.Table
	view     *model.Table
	applied  []Criteria
}

// NewSession starts a session whose view is the whole table.
func NewSession(original *model.Table) *Session {
	return &Session{original: original, view: original}
}

// Original returns the unfiltered table.
func (s *Session) Original() *model.Table {
	return s.original
}

// View returns the current view.
func (s *Session) View() *model.Table {
	return s.view
}

// Applied returns the criteria that produced the current view, oldest first.
func (s *Session) Applied() []Criteria {
	return append([]Criteria(nil), s.applied...)
}

// Apply filters the original table and replaces the view. On error the view
// is left as it was.
func (s *Session) Apply(c Criteria) (*model.Table, error) {
	view, err := Apply(s.original, c)
	if err != nil {
		return s.view, err
	}
	s.view = view
	s.applied = []Criteria{c}
	util.LogDebugf("Filter %s: %d of %d rows", c, view.Len(), s.original.Len())
	return view, nil
}

// Refine filters the current view, compounding with earlier criteria.
func (s *Session) Refine(c Criteria) (*model.Table, error) {
	view, err := Apply(s.view, c)
	if err != nil {
		return s.view, err
	}
	s.view = view
	s.applied = append(s.applied, c)
	util.LogDebugf("Refine %s: %d rows", c, view.Len())
	return view, nil
}

// Reset drops every filter and returns the original table.
func (s *Session) Reset() *model.Table {
	s.view = s.original
	s.applied = nil
	return s.view
}
