package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/logger"
	"github.com/kittyscape/lootbot/internal/metrics"
)

// Resolver maps an in-game account handle to the member identities that
// claimed it. Lookup is case-insensitive.
type Resolver interface {
	Resolve(ctx context.Context, handle string) ([]string, error)
}

// Recorder is the slice of the ledger the feed writes through.
type Recorder interface {
	RecordDropValued(ctx context.Context, ownerID, itemName string, quantity, totalValue int64) (*domain.EventSummary, error)
	RecordCollection(ctx context.Context, ownerID, itemName string) (*domain.EventSummary, error)
}

// IngestResult is the outcome of applying one extracted candidate to one
// resolved identity. Duplicate collection entries are reported with a
// nil Summary and Skipped set.
type IngestResult struct {
	OwnerID string
	Summary *domain.EventSummary
	Skipped bool
}

// Service ingests feed messages end to end: extract, resolve, record.
type Service interface {
	// HandleMessage processes one feed message. It returns the extracted
	// candidate and the per-identity results, or (nil, nil, nil) when the
	// message matches no known format. An unlinked handle is not an
	// error; it yields a candidate with no results.
	HandleMessage(ctx context.Context, env Envelope) (*Candidate, []IngestResult, error)
}

type service struct {
	extractor *Extractor
	resolver  Resolver
	recorder  Recorder
}

func NewService(resolver Resolver, recorder Recorder) Service {
	return &service{
		extractor: NewExtractor(),
		resolver:  resolver,
		recorder:  recorder,
	}
}

func (s *service) HandleMessage(ctx context.Context, env Envelope) (*Candidate, []IngestResult, error) {
	log := logger.FromContext(ctx)

	cand, ok := s.extractor.Extract(env)
	observeOutcome(cand, ok)
	if !ok {
		return nil, nil, nil
	}

	log.Info("feed message matched",
		"kind", cand.Kind, "handle", cand.Handle, "item", cand.ItemName,
		"quantity", cand.Quantity, "value", cand.Value)

	owners, err := s.resolver.Resolve(ctx, cand.Handle)
	if err != nil {
		return cand, nil, fmt.Errorf("resolving handle %q: %w", cand.Handle, err)
	}
	if len(owners) == 0 {
		metrics.FeedUnlinkedHandles.Inc()
		log.Info("feed handle not linked to any member", "handle", cand.Handle)
		return cand, nil, nil
	}

	results := make([]IngestResult, 0, len(owners))
	for _, ownerID := range owners {
		res, err := s.apply(ctx, log, ownerID, cand)
		if err != nil {
			return cand, results, err
		}
		results = append(results, res)
	}

	return cand, results, nil
}

// apply records one candidate against one identity. Duplicate collection
// entries are a normal replay outcome and become a skip, not an error.
func (s *service) apply(ctx context.Context, log *slog.Logger, ownerID string, cand *Candidate) (IngestResult, error) {
	var (
		summary *domain.EventSummary
		err     error
	)

	switch cand.Kind {
	case domain.EventKindDrop:
		summary, err = s.recorder.RecordDropValued(ctx, ownerID, cand.ItemName, cand.Quantity, cand.Value)
	case domain.EventKindCollection:
		summary, err = s.recorder.RecordCollection(ctx, ownerID, cand.ItemName)
	default:
		return IngestResult{}, fmt.Errorf("unexpected event kind %q", cand.Kind)
	}

	if errors.Is(err, domain.ErrDuplicateEntry) {
		log.Info("duplicate collection entry skipped", "owner_id", ownerID, "item", cand.ItemName)
		return IngestResult{OwnerID: ownerID, Skipped: true}, nil
	}
	if err != nil {
		return IngestResult{}, fmt.Errorf("recording %s for %s: %w", cand.Kind, ownerID, err)
	}

	return IngestResult{OwnerID: ownerID, Summary: summary}, nil
}
