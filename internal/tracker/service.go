// Package tracker is the points ledger: it records reward events,
// keeps per-identity balances consistent, and detects rank crossings.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/logger"
	"github.com/kittyscape/lootbot/internal/metrics"
	"github.com/kittyscape/lootbot/internal/ranks"
	"github.com/kittyscape/lootbot/internal/scoring"
)

// periodWindow is the lookback for the periodic top boards.
const periodWindow = 30 * 24 * time.Hour

// MutationResult is what the repository returns for a committed ledger
// mutation: the stored event plus the balance before and after.
type MutationResult struct {
	Event     domain.EventRecord
	OldPoints int64
	NewPoints int64
}

// Repository is the persistence boundary for the ledger. Mutations are
// atomic per identity: the implementation locks the owner's balance row,
// applies the change, and commits balance and event together.
type Repository interface {
	// InsertEvent stores an event and applies its points to the owner's
	// balance. Collection events that duplicate a live entry for the
	// same owner and item fail with ErrDuplicateEntry.
	InsertEvent(ctx context.Context, event domain.EventRecord) (*MutationResult, error)

	// DeleteEvent removes an event owned by ownerID and subtracts its
	// points from the balance. A missing or foreign event fails with
	// ErrEventNotOwned.
	DeleteEvent(ctx context.Context, ownerID string, eventID int64) (*MutationResult, error)

	GetBalance(ctx context.Context, ownerID string) (domain.Balance, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]domain.EventRecord, error)
	GetStats(ctx context.Context, ownerID string) (domain.ProfileStats, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	TopDrops(ctx context.Context, since time.Time, limit int) ([]domain.PeriodDropEntry, error)
	TopCollections(ctx context.Context, since time.Time, limit int) ([]domain.PeriodClogEntry, error)
	ListThresholds(ctx context.Context) ([]domain.RankThreshold, error)
}

// PriceSource resolves an item name to its current GE unit price.
type PriceSource interface {
	UnitPrice(itemName string) (int64, error)
}

// RaritySource resolves a collection-log item name to its drop rate.
type RaritySource interface {
	Rate(itemName string) (float64, error)
}

// Notifier delivers rank change announcements after a mutation commits.
// Delivery is best effort; the ledger never rolls back on notify failure.
type Notifier interface {
	NotifyRankChange(ctx context.Context, ownerID string, summary domain.EventSummary) error
}

// Service is the ledger API used by the feed and the slash commands.
type Service interface {
	// RecordDrop records a manually reported drop, pricing it from the
	// price source. Total value is unit price times quantity.
	RecordDrop(ctx context.Context, ownerID, itemName string, quantity int64) (*domain.EventSummary, error)

	// RecordDropValued records a feed drop whose total value arrived
	// with the message.
	RecordDropValued(ctx context.Context, ownerID, itemName string, quantity, totalValue int64) (*domain.EventSummary, error)

	// RecordCollection records a feed collection-log unlock, scoring it
	// from the rarity source. Duplicate live entries for the same owner
	// and item fail with ErrDuplicateEntry.
	RecordCollection(ctx context.Context, ownerID, itemName string) (*domain.EventSummary, error)

	// RecordCollectionManual is RecordCollection for the slash-command
	// path; it differs only in source accounting.
	RecordCollectionManual(ctx context.Context, ownerID, itemName string) (*domain.EventSummary, error)

	// RemoveEvent deletes an event the caller owns and compensates the
	// balance. The summary's delta is negative and Crossed holds any
	// ranks lost.
	RemoveEvent(ctx context.Context, ownerID string, eventID int64) (*domain.EventSummary, error)

	GetBalance(ctx context.Context, ownerID string) (domain.Balance, error)
	GetRankProgress(ctx context.Context, ownerID string) (domain.Balance, string, *domain.RankThreshold, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]domain.EventRecord, error)
	Stats(ctx context.Context, ownerID string) (domain.ProfileStats, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	TopDrops(ctx context.Context, limit int) ([]domain.PeriodDropEntry, error)
	TopCollections(ctx context.Context, limit int) ([]domain.PeriodClogEntry, error)
}

type service struct {
	repo     Repository
	prices   PriceSource
	rarities RaritySource
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, prices PriceSource, rarities RaritySource, notifier Notifier) Service {
	return &service{
		repo:     repo,
		prices:   prices,
		rarities: rarities,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) RecordDrop(ctx context.Context, ownerID, itemName string, quantity int64) (*domain.EventSummary, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidInput)
	}

	unitPrice, err := s.prices.UnitPrice(itemName)
	if err != nil {
		return nil, err
	}

	totalValue := scoring.DropTotalValue(unitPrice, quantity)
	return s.record(ctx, domain.EventRecord{
		OwnerID:  ownerID,
		Kind:     domain.EventKindDrop,
		ItemName: itemName,
		Quantity: quantity,
		Value:    totalValue,
		Points:   scoring.DropPoints(totalValue),
	}, metrics.SourceCommand)
}

func (s *service) RecordDropValued(ctx context.Context, ownerID, itemName string, quantity, totalValue int64) (*domain.EventSummary, error) {
	if quantity < 1 {
		quantity = 1
	}
	if totalValue < 0 {
		return nil, fmt.Errorf("%w: negative drop value", domain.ErrInvalidInput)
	}

	return s.record(ctx, domain.EventRecord{
		OwnerID:  ownerID,
		Kind:     domain.EventKindDrop,
		ItemName: itemName,
		Quantity: quantity,
		Value:    totalValue,
		Points:   scoring.DropPoints(totalValue),
	}, metrics.SourceFeed)
}

func (s *service) RecordCollection(ctx context.Context, ownerID, itemName string) (*domain.EventSummary, error) {
	return s.recordCollection(ctx, ownerID, itemName, metrics.SourceFeed)
}

func (s *service) RecordCollectionManual(ctx context.Context, ownerID, itemName string) (*domain.EventSummary, error) {
	return s.recordCollection(ctx, ownerID, itemName, metrics.SourceCommand)
}

func (s *service) recordCollection(ctx context.Context, ownerID, itemName, source string) (*domain.EventSummary, error) {
	rate, err := s.rarities.Rate(itemName)
	if err != nil {
		return nil, err
	}

	return s.record(ctx, domain.EventRecord{
		OwnerID:  ownerID,
		Kind:     domain.EventKindCollection,
		ItemName: itemName,
		Quantity: 1,
		Points:   scoring.CollectionPoints(rate),
	}, source)
}

// record commits one event and turns the mutation into a summary,
// firing rank notifications after the commit.
func (s *service) record(ctx context.Context, event domain.EventRecord, source string) (*domain.EventSummary, error) {
	result, err := s.repo.InsertEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	metrics.EventsRecorded.WithLabelValues(string(event.Kind), source).Inc()

	summary, err := s.summarize(ctx, result)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("event recorded",
		"event_id", summary.EventID, "owner_id", event.OwnerID, "kind", event.Kind,
		"item", event.ItemName, "points", summary.PointsDelta, "new_points", summary.NewPoints)

	s.notifyIfCrossed(ctx, event.OwnerID, *summary)
	return summary, nil
}

func (s *service) RemoveEvent(ctx context.Context, ownerID string, eventID int64) (*domain.EventSummary, error) {
	result, err := s.repo.DeleteEvent(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}

	metrics.EventsRemoved.WithLabelValues(string(result.Event.Kind)).Inc()

	summary, err := s.summarize(ctx, result)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("event removed",
		"event_id", eventID, "owner_id", ownerID, "points", summary.PointsDelta,
		"new_points", summary.NewPoints)

	s.notifyIfCrossed(ctx, ownerID, *summary)
	return summary, nil
}

// summarize attaches rank crossing data to a committed mutation.
func (s *service) summarize(ctx context.Context, result *MutationResult) (*domain.EventSummary, error) {
	thresholds, err := s.repo.ListThresholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rank thresholds: %w", err)
	}

	crossed, next := ranks.Evaluate(result.OldPoints, result.NewPoints, thresholds)
	return &domain.EventSummary{
		EventID:     result.Event.ID,
		ItemName:    result.Event.ItemName,
		Kind:        result.Event.Kind,
		Quantity:    result.Event.Quantity,
		Value:       result.Event.Value,
		PointsDelta: result.NewPoints - result.OldPoints,
		OldPoints:   result.OldPoints,
		NewPoints:   result.NewPoints,
		Crossed:     crossed,
		Next:        next,
	}, nil
}

// notifyIfCrossed fires the rank announcement in the background. The
// mutation is already committed; a delivery failure is only counted.
func (s *service) notifyIfCrossed(ctx context.Context, ownerID string, summary domain.EventSummary) {
	if s.notifier == nil || (!summary.RankedUp() && !summary.RankedDown()) {
		return
	}

	ingestID, ok := logger.IngestIDFromContext(ctx)
	if !ok {
		ingestID = logger.GenerateIngestID()
	}

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		notifyCtx = logger.WithIngestID(notifyCtx, ingestID)

		if err := s.notifier.NotifyRankChange(notifyCtx, ownerID, summary); err != nil {
			metrics.RankNotificationFailures.Inc()
			logger.FromContext(notifyCtx).Error("rank notification failed",
				"owner_id", ownerID, "error", err)
		}
	}()
}

func (s *service) GetBalance(ctx context.Context, ownerID string) (domain.Balance, error) {
	return s.repo.GetBalance(ctx, ownerID)
}

func (s *service) GetRankProgress(ctx context.Context, ownerID string) (domain.Balance, string, *domain.RankThreshold, error) {
	balance, err := s.repo.GetBalance(ctx, ownerID)
	if err != nil {
		return domain.Balance{}, "", nil, err
	}

	thresholds, err := s.repo.ListThresholds(ctx)
	if err != nil {
		return domain.Balance{}, "", nil, fmt.Errorf("loading rank thresholds: %w", err)
	}

	_, next := ranks.Evaluate(balance.Points, balance.Points, thresholds)
	return balance, ranks.Current(balance.Points, thresholds), next, nil
}

func (s *service) ListRecent(ctx context.Context, ownerID string, limit int) ([]domain.EventRecord, error) {
	if limit < 1 {
		limit = 10
	}
	return s.repo.ListRecent(ctx, ownerID, limit)
}

func (s *service) Stats(ctx context.Context, ownerID string) (domain.ProfileStats, error) {
	stats, err := s.repo.GetStats(ctx, ownerID)
	if err != nil {
		return domain.ProfileStats{}, err
	}

	thresholds, err := s.repo.ListThresholds(ctx)
	if err != nil {
		return domain.ProfileStats{}, fmt.Errorf("loading rank thresholds: %w", err)
	}

	stats.CurrentRank = ranks.Current(stats.Balance.Points, thresholds)
	_, stats.Next = ranks.Evaluate(stats.Balance.Points, stats.Balance.Points, thresholds)
	return stats, nil
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit < 1 {
		limit = 10
	}
	return s.repo.Leaderboard(ctx, limit)
}

func (s *service) TopDrops(ctx context.Context, limit int) ([]domain.PeriodDropEntry, error) {
	if limit < 1 {
		limit = 10
	}
	return s.repo.TopDrops(ctx, s.now().Add(-periodWindow), limit)
}

func (s *service) TopCollections(ctx context.Context, limit int) ([]domain.PeriodClogEntry, error) {
	if limit < 1 {
		limit = 10
	}
	return s.repo.TopCollections(ctx, s.now().Add(-periodWindow), limit)
}
