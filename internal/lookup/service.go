package lookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"readinglog/internal/platform/googlebooks"
)

const (
	DefaultMaxResults = 5
	DefaultTimeout    = 10 * time.Second
)

// VolumeSearcher is the metadata API the resolver depends on.
type VolumeSearcher interface {
	SearchVolumes(ctx context.Context, q string, maxResults int) (*googlebooks.VolumesResponse, error)
}

// Result is what a lookup shows the user. Message is set only when the API
// itself reported an error.
type Result struct {
	Term       string      `json:"term"`
	Candidates []Candidate `json:"candidates"`
	Message    string      `json:"message,omitempty"`
}

type Service struct {
	client     VolumeSearcher
	logger     *log.Logger
	maxResults int
	timeout    time.Duration
}

func NewService(client VolumeSearcher, logger *log.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		client:     client,
		logger:     logger.WithPrefix("lookup"),
		maxResults: DefaultMaxResults,
		timeout:    timeout,
	}
}

// Search extracts the search term from raw input and resolves it.
func (s *Service) Search(ctx context.Context, raw string) Result {
	return s.Resolve(ctx, ExtractSearchTerm(raw))
}

// Resolve makes a single metadata request for term. Failures are logged and
// reported as an empty candidate list; it never returns an error.
func (s *Service) Resolve(ctx context.Context, term string) Result {
	res := Result{Term: strings.TrimSpace(term), Candidates: []Candidate{}}
	if res.Term == "" {
		return res
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	volumes, err := s.client.SearchVolumes(timeoutCtx, res.Term, s.maxResults)
	if err != nil {
		var apiErr *googlebooks.APIError
		if errors.As(err, &apiErr) {
			s.logger.Warn("metadata api error", "term", res.Term, "code", apiErr.Code, "message", apiErr.Message)
			res.Message = "Google Books API error: " + apiErr.Message
			return res
		}
		s.logger.Warn("metadata lookup failed", "term", res.Term, "err", err)
		return res
	}

	for _, item := range volumes.Items {
		res.Candidates = append(res.Candidates, candidateFromVolume(item.VolumeInfo))
	}
	s.logger.Debug("metadata lookup", "term", res.Term, "candidates", len(res.Candidates))
	return res
}
