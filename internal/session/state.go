// Package session holds the interactive application state: the password gate flag,
// the registration flow and the shelf selections.
package session

import (
	"context"
	"errors"
	"fmt"

	"readinglog/internal/book"
	"readinglog/internal/lookup"
)

// ErrInvalidTransition is returned when an action is not allowed in the current phase.
var ErrInvalidTransition = errors.New("invalid state transition")

// Phase is the position in the registration/edit flow.
type Phase int

const (
	Idle Phase = iota
	Searching
	CandidatesShown
	FormEditing
	Submitting
	PersistedOrError
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case CandidatesShown:
		return "candidates_shown"
	case FormEditing:
		return "form_editing"
	case Submitting:
		return "submitting"
	case PersistedOrError:
		return "persisted_or_error"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Resolver finds metadata candidates for raw user input.
type Resolver interface {
	Search(ctx context.Context, raw string) lookup.Result
}

// Registrar persists a submitted form.
type Registrar interface {
	Register(ctx context.Context, form book.Form) (book.Record, error)
	Edit(ctx context.Context, id book.RowID, form book.Form) (book.Record, error)
}

// State is mutated only through its methods, one per user action.
type State struct {
	Authenticated bool

	Phase      Phase
	Query      string
	Candidates []lookup.Candidate
	Message    string
	Pending    book.Form
	Saved      book.Record
	Err        error

	// EditRow is the row the pending form replaces; zero means a new registration.
	EditRow   book.RowID
	DetailRow book.RowID

	FilterResets int
}

func New() *State {
	return &State{Phase: Idle}
}

func (s *State) transition(to Phase, from ...Phase) error {
	for _, f := range from {
		if s.Phase == f {
			s.Phase = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Phase, to)
}

func (s *State) Unlock() {
	s.Authenticated = true
}

// Lock logs out and abandons any flow in progress.
func (s *State) Lock() {
	s.Cancel()
	s.Authenticated = false
	s.EditRow = 0
	s.DetailRow = 0
}

// StartSearch begins a lookup. A new search may also start from the candidate list
// or after a finished submission.
func (s *State) StartSearch(query string) error {
	if err := s.transition(Searching, Idle, CandidatesShown, PersistedOrError); err != nil {
		return err
	}
	s.Query = query
	s.Candidates = nil
	s.Message = ""
	s.Err = nil
	return nil
}

// ShowCandidates records the resolver response, which may be empty.
func (s *State) ShowCandidates(res lookup.Result) error {
	if err := s.transition(CandidatesShown, Searching); err != nil {
		return err
	}
	s.Candidates = res.Candidates
	s.Message = res.Message
	return nil
}

// SelectCandidate merges candidate i into a fresh pending form.
func (s *State) SelectCandidate(i int) error {
	if s.Phase != CandidatesShown {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Phase, FormEditing)
	}
	if i < 0 || i >= len(s.Candidates) {
		return fmt.Errorf("candidate %d out of range", i)
	}
	c := s.Candidates[i]
	s.Phase = FormEditing
	s.EditRow = 0
	s.Pending = book.Form{
		Title:         c.Title,
		Authors:       c.Authors,
		CoverImageURL: c.ThumbnailURL,
	}
	return nil
}

// EnterManually opens an empty registration form.
func (s *State) EnterManually() error {
	if err := s.transition(FormEditing, Idle, CandidatesShown); err != nil {
		return err
	}
	s.EditRow = 0
	s.Pending = book.Form{}
	return nil
}

// BeginEdit opens the edit form for an existing record.
func (s *State) BeginEdit(rec book.Record) error {
	if err := s.transition(FormEditing, Idle, PersistedOrError); err != nil {
		return err
	}
	s.EditRow = rec.RowID
	s.Pending = book.FormFromRecord(rec)
	return nil
}

// UpdateForm applies edits to the pending form.
func (s *State) UpdateForm(edit func(*book.Form)) error {
	if s.Phase != FormEditing {
		return fmt.Errorf("%w: cannot edit form in %s", ErrInvalidTransition, s.Phase)
	}
	edit(&s.Pending)
	return nil
}

// Submit moves to Submitting when the form is valid, including the confirmation
// checkbox. An invalid form stays in FormEditing and the validation error is returned.
func (s *State) Submit() (book.Form, error) {
	if s.Phase != FormEditing {
		return book.Form{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Phase, Submitting)
	}
	if err := s.Pending.Validate(); err != nil {
		return book.Form{}, err
	}
	s.Phase = Submitting
	return s.Pending, nil
}

// Complete records the store result of a submission.
func (s *State) Complete(rec book.Record, err error) error {
	if tErr := s.transition(PersistedOrError, Submitting); tErr != nil {
		return tErr
	}
	s.Err = err
	if err == nil {
		s.Saved = rec
		s.Pending = book.Form{}
		s.EditRow = 0
	}
	return nil
}

// Cancel returns to Idle from any phase.
func (s *State) Cancel() {
	s.Phase = Idle
	s.Query = ""
	s.Candidates = nil
	s.Message = ""
	s.Pending = book.Form{}
	s.Err = nil
}

func (s *State) SelectForEdit(id book.RowID) {
	s.EditRow = id
}

func (s *State) SelectForDetail(id book.RowID) {
	s.DetailRow = id
}

// ResetFilters bumps the counter the shelf watches to clear its filter controls.
func (s *State) ResetFilters() {
	s.FilterResets++
}

// Search runs a full lookup: Searching, the resolver call, then CandidatesShown.
func (s *State) Search(ctx context.Context, r Resolver, query string) error {
	if err := s.StartSearch(query); err != nil {
		return err
	}
	return s.ShowCandidates(r.Search(ctx, query))
}

// Save submits the pending form through reg and records the outcome. The returned
// error is the validation or store error, if any.
func (s *State) Save(ctx context.Context, reg Registrar) (book.Record, error) {
	form, err := s.Submit()
	if err != nil {
		return book.Record{}, err
	}
	var rec book.Record
	if s.EditRow != 0 {
		rec, err = reg.Edit(ctx, s.EditRow, form)
	} else {
		rec, err = reg.Register(ctx, form)
	}
	if cErr := s.Complete(rec, err); cErr != nil {
		return book.Record{}, cErr
	}
	return rec, err
}
