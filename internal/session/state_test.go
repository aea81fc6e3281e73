package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"readinglog/internal/book"
	"readinglog/internal/lookup"
)

type mockResolver struct{ mock.Mock }

func (m *mockResolver) Search(ctx context.Context, raw string) lookup.Result {
	return m.Called(ctx, raw).Get(0).(lookup.Result)
}

type mockRegistrar struct{ mock.Mock }

func (m *mockRegistrar) Register(ctx context.Context, form book.Form) (book.Record, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(book.Record), args.Error(1)
}

func (m *mockRegistrar) Edit(ctx context.Context, id book.RowID, form book.Form) (book.Record, error) {
	args := m.Called(ctx, id, form)
	return args.Get(0).(book.Record), args.Error(1)
}

func TestState_RegistrationFlow(t *testing.T) {
	ctx := context.Background()
	s := New()

	resolver := &mockResolver{}
	resolver.On("Search", ctx, "dune").Return(lookup.Result{
		Term:       "dune",
		Candidates: []lookup.Candidate{{Title: "Dune", Authors: "Frank Herbert", ThumbnailURL: "https://x/img"}},
	})

	require.NoError(t, s.Search(ctx, resolver, "dune"))
	assert.Equal(t, CandidatesShown, s.Phase)
	require.Len(t, s.Candidates, 1)

	require.NoError(t, s.SelectCandidate(0))
	assert.Equal(t, FormEditing, s.Phase)
	assert.Equal(t, "Dune", s.Pending.Title)
	assert.Equal(t, "https://x/img", s.Pending.CoverImageURL)

	// unchecked confirmation keeps the form open
	_, err := s.Save(ctx, &mockRegistrar{})
	var verr *book.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FormEditing, s.Phase)

	require.NoError(t, s.UpdateForm(func(f *book.Form) {
		f.Rating = "5"
		f.Confirmed = true
	}))

	reg := &mockRegistrar{}
	saved := book.Record{RowID: 7, Title: "Dune", Rating: 5}
	reg.On("Register", ctx, mock.MatchedBy(func(f book.Form) bool { return f.Title == "Dune" && f.Confirmed })).
		Return(saved, nil)

	rec, err := s.Save(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, saved, rec)
	assert.Equal(t, PersistedOrError, s.Phase)
	assert.Equal(t, saved, s.Saved)
	reg.AssertExpectations(t)
	resolver.AssertExpectations(t)
}

func TestState_EmptyCandidatesStillShown(t *testing.T) {
	s := New()
	require.NoError(t, s.StartSearch("nothing"))
	require.NoError(t, s.ShowCandidates(lookup.Result{Candidates: []lookup.Candidate{}, Message: "quota"}))
	assert.Equal(t, CandidatesShown, s.Phase)
	assert.Equal(t, "quota", s.Message)

	require.NoError(t, s.EnterManually())
	assert.Equal(t, FormEditing, s.Phase)
}

func TestState_StoreErrorRecorded(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.EnterManually())
	require.NoError(t, s.UpdateForm(func(f *book.Form) {
		f.Title = "Walden"
		f.Confirmed = true
	}))

	reg := &mockRegistrar{}
	reg.On("Register", ctx, mock.Anything).Return(book.Record{}, book.ErrStoreUnavailable)

	_, err := s.Save(ctx, reg)
	assert.ErrorIs(t, err, book.ErrStoreUnavailable)
	assert.Equal(t, PersistedOrError, s.Phase)
	assert.ErrorIs(t, s.Err, book.ErrStoreUnavailable)
	// the pending form survives so the user can retry
	assert.Equal(t, "Walden", s.Pending.Title)
}

func TestState_EditFlowReplacesRow(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.BeginEdit(book.Record{RowID: 3, Title: "Old", Rating: 2, Category: book.CategoryEssay}))
	assert.Equal(t, book.RowID(3), s.EditRow)
	require.NoError(t, s.UpdateForm(func(f *book.Form) {
		f.Title = "New"
		f.Confirmed = true
	}))

	reg := &mockRegistrar{}
	reg.On("Edit", ctx, book.RowID(3), mock.MatchedBy(func(f book.Form) bool { return f.Title == "New" })).
		Return(book.Record{RowID: 3, Title: "New"}, nil)

	_, err := s.Save(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, book.RowID(0), s.EditRow)
	reg.AssertExpectations(t)
}

func TestState_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		act  func(s *State) error
	}{
		{"select without candidates", func(s *State) error { return s.SelectCandidate(0) }},
		{"show candidates without search", func(s *State) error { return s.ShowCandidates(lookup.Result{}) }},
		{"submit from idle", func(s *State) error { _, err := s.Submit(); return err }},
		{"complete from idle", func(s *State) error { return s.Complete(book.Record{}, nil) }},
		{"edit form from idle", func(s *State) error { return s.UpdateForm(func(*book.Form) {}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			assert.ErrorIs(t, tt.act(s), ErrInvalidTransition)
			assert.Equal(t, Idle, s.Phase)
		})
	}
}

func TestState_CancelFromAnyPhase(t *testing.T) {
	for _, p := range []Phase{Idle, Searching, CandidatesShown, FormEditing, Submitting, PersistedOrError} {
		t.Run(p.String(), func(t *testing.T) {
			s := New()
			s.Phase = p
			s.Pending.Title = "x"
			s.Cancel()
			assert.Equal(t, Idle, s.Phase)
			assert.Empty(t, s.Pending.Title)
		})
	}
}

func TestState_SelectionsAndLock(t *testing.T) {
	s := New()
	s.Unlock()
	s.SelectForDetail(4)
	s.SelectForEdit(5)
	s.ResetFilters()
	s.ResetFilters()

	assert.True(t, s.Authenticated)
	assert.Equal(t, book.RowID(4), s.DetailRow)
	assert.Equal(t, 2, s.FilterResets)

	s.Lock()
	assert.False(t, s.Authenticated)
	assert.Zero(t, s.DetailRow)
	assert.Zero(t, s.EditRow)
}
