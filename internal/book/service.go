package book

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultListStaleness is how old a cached read may be when browsing the shelf.
const DefaultListStaleness = 60 * time.Second

// Service provides the register, edit, delete and browse flows.
type Service struct {
	store         Store
	logger        *log.Logger
	now           func() time.Time
	listStaleness time.Duration
}

type Option func(*Service)

// WithClock overrides the clock used for date defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithListStaleness sets the freshness bound used by List and Get.
func WithListStaleness(d time.Duration) Option {
	return func(s *Service) { s.listStaleness = d }
}

// NewService creates a new book service.
func NewService(store Store, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		store:         store,
		logger:        logger.WithPrefix("book"),
		now:           time.Now,
		listStaleness: DefaultListStaleness,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListResult is the visible shelf plus the data the filter controls need.
type ListResult struct {
	Records []Record
	Total   int
	Years   []int
}

// List returns the records matching f.
func (s *Service) List(ctx context.Context, f Filter) (ListResult, error) {
	rows, err := s.store.ReadAll(ctx, s.listStaleness)
	if err != nil {
		s.logger.Error("read books", "err", err)
		return ListResult{}, err
	}
	all := DecodeAll(rows)
	records := Apply(all, f)
	return ListResult{Records: records, Total: len(records), Years: Years(all)}, nil
}

// Get returns the record at id as stored, with absent dates left absent.
func (s *Service) Get(ctx context.Context, id RowID) (Record, error) {
	row, err := s.find(ctx, id, s.listStaleness)
	if err != nil {
		return Record{}, err
	}
	return Decode(row), nil
}

// EditForm returns the record at id with every field populated for the edit form.
func (s *Service) EditForm(ctx context.Context, id RowID) (Record, error) {
	row, err := s.find(ctx, id, 0)
	if err != nil {
		return Record{}, err
	}
	return Normalize(row, s.now()), nil
}

func (s *Service) find(ctx context.Context, id RowID, maxStaleness time.Duration) (Row, error) {
	rows, err := s.store.ReadAll(ctx, maxStaleness)
	if err != nil {
		s.logger.Error("read books", "err", err)
		return Row{}, err
	}
	for _, row := range rows {
		if row.ID == id {
			return row, nil
		}
	}
	return Row{}, ErrNotFound
}

// Register validates the form and appends it as a new row.
func (s *Service) Register(ctx context.Context, form Form) (Record, error) {
	if err := form.Validate(); err != nil {
		return Record{}, err
	}
	rec := form.Record(s.now())
	id, err := s.store.Append(ctx, rec.ToRow())
	if err != nil {
		s.logger.Error("append book", "title", rec.Title, "err", err)
		return Record{}, err
	}
	rec.RowID = id
	s.logger.Info("book registered", "id", id, "title", rec.Title)
	return rec, nil
}

// Edit validates the form and replaces the whole row at id.
func (s *Service) Edit(ctx context.Context, id RowID, form Form) (Record, error) {
	if err := form.Validate(); err != nil {
		return Record{}, err
	}
	rec := form.Record(s.now())
	rec.RowID = id
	if err := s.store.Replace(ctx, id, rec.ToRow()); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("replace book", "id", id, "err", err)
		}
		return Record{}, err
	}
	s.logger.Info("book updated", "id", id, "title", rec.Title)
	return rec, nil
}

// Delete removes exactly the row at id.
func (s *Service) Delete(ctx context.Context, id RowID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("delete book", "id", id, "err", err)
		}
		return err
	}
	s.logger.Info("book deleted", "id", id)
	return nil
}
