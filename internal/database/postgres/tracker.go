package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/tracker"
)

// TrackerRepository implements tracker.Repository.
type TrackerRepository struct {
	db *pgxpool.Pool
}

func NewTrackerRepository(db *pgxpool.Pool) *TrackerRepository {
	return &TrackerRepository{db: db}
}

// InsertEvent stores an event and applies its points to the owner's
// balance in one transaction. The owner's balance row is locked for the
// duration, so concurrent mutations for the same identity serialize.
func (r *TrackerRepository) InsertEvent(ctx context.Context, event domain.EventRecord) (*tracker.MutationResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	oldPoints, err := lockBalance(ctx, tx, event.OwnerID)
	if err != nil {
		return nil, err
	}

	if event.Kind == domain.EventKindCollection {
		var loggedAt time.Time
		err = tx.QueryRow(ctx, `
			SELECT created_at FROM events
			WHERE owner_id = $1 AND kind = 'collection' AND LOWER(item_name) = LOWER($2)
			LIMIT 1`, event.OwnerID, event.ItemName).Scan(&loggedAt)
		switch {
		case err == nil:
			return nil, fmt.Errorf("%w: %s first logged %s",
				domain.ErrDuplicateEntry, event.ItemName, loggedAt.Format(time.RFC3339))
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("checking for duplicate entry: %w", err)
		}
	}

	stored := event
	err = tx.QueryRow(ctx, `
		INSERT INTO events (owner_id, kind, item_name, quantity, value, points)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING event_id, created_at`,
		event.OwnerID, event.Kind, event.ItemName, event.Quantity, event.Value, event.Points,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEntry, event.ItemName)
		}
		return nil, fmt.Errorf("inserting event: %w", err)
	}

	newPoints, err := applyBalanceDelta(ctx, tx, event.OwnerID, event.Points, dropDelta(event.Kind, 1))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing event: %w", err)
	}

	return &tracker.MutationResult{Event: stored, OldPoints: oldPoints, NewPoints: newPoints}, nil
}

// DeleteEvent removes an event the owner holds and subtracts its points
// from the balance.
func (r *TrackerRepository) DeleteEvent(ctx context.Context, ownerID string, eventID int64) (*tracker.MutationResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	oldPoints, err := lockBalance(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}

	var event domain.EventRecord
	err = tx.QueryRow(ctx, `
		DELETE FROM events
		WHERE event_id = $1 AND owner_id = $2
		RETURNING event_id, owner_id, kind, item_name, quantity, value, points, created_at`,
		eventID, ownerID,
	).Scan(&event.ID, &event.OwnerID, &event.Kind, &event.ItemName,
		&event.Quantity, &event.Value, &event.Points, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotOwned
		}
		return nil, fmt.Errorf("deleting event: %w", err)
	}

	newPoints, err := applyBalanceDelta(ctx, tx, ownerID, -event.Points, dropDelta(event.Kind, -1))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing removal: %w", err)
	}

	return &tracker.MutationResult{Event: event, OldPoints: oldPoints, NewPoints: newPoints}, nil
}

// lockBalance ensures the user row exists and locks it, returning the
// current points.
func lockBalance(ctx context.Context, tx pgx.Tx, ownerID string) (int64, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("ensuring user row: %w", err)
	}

	var points int64
	err = tx.QueryRow(ctx, `
		SELECT points FROM users WHERE user_id = $1 FOR UPDATE`, ownerID).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("locking balance: %w", err)
	}
	return points, nil
}

func applyBalanceDelta(ctx context.Context, tx pgx.Tx, ownerID string, pointsDelta, dropsDelta int64) (int64, error) {
	var newPoints int64
	err := tx.QueryRow(ctx, `
		UPDATE users
		SET points = points + $2, total_drops = total_drops + $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING points`, ownerID, pointsDelta, dropsDelta).Scan(&newPoints)
	if err != nil {
		return 0, fmt.Errorf("updating balance: %w", err)
	}
	return newPoints, nil
}

func dropDelta(kind domain.EventKind, sign int64) int64 {
	if kind == domain.EventKindDrop {
		return sign
	}
	return 0
}

func (r *TrackerRepository) GetBalance(ctx context.Context, ownerID string) (domain.Balance, error) {
	var balance domain.Balance
	err := r.db.QueryRow(ctx, `
		SELECT points, total_drops FROM users WHERE user_id = $1`, ownerID,
	).Scan(&balance.Points, &balance.TotalDrops)
	if errors.Is(err, pgx.ErrNoRows) {
		// Identities with no recorded events have a zero balance.
		return domain.Balance{}, nil
	}
	if err != nil {
		return domain.Balance{}, fmt.Errorf("getting balance: %w", err)
	}
	return balance, nil
}

func (r *TrackerRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]domain.EventRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT event_id, owner_id, kind, item_name, quantity, value, points, created_at
		FROM events
		WHERE owner_id = $1
		ORDER BY created_at DESC, event_id DESC
		LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent events: %w", err)
	}
	defer rows.Close()

	var events []domain.EventRecord
	for rows.Next() {
		var ev domain.EventRecord
		if err := rows.Scan(&ev.ID, &ev.OwnerID, &ev.Kind, &ev.ItemName,
			&ev.Quantity, &ev.Value, &ev.Points, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *TrackerRepository) GetStats(ctx context.Context, ownerID string) (domain.ProfileStats, error) {
	var stats domain.ProfileStats
	err := r.db.QueryRow(ctx, `
		SELECT points, total_drops FROM users WHERE user_id = $1`, ownerID,
	).Scan(&stats.Balance.Points, &stats.Balance.TotalDrops)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProfileStats{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, ownerID)
	}
	if err != nil {
		return domain.ProfileStats{}, fmt.Errorf("getting stats balance: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE kind = 'collection'),
		       COALESCE(SUM(value) FILTER (WHERE kind = 'drop'), 0)
		FROM events WHERE owner_id = $1`, ownerID,
	).Scan(&stats.ClogCount, &stats.TotalGPValue)
	if err != nil {
		return domain.ProfileStats{}, fmt.Errorf("getting stats aggregates: %w", err)
	}

	stats.BestDrop, err = r.bestEvent(ctx, ownerID, domain.EventKindDrop, "value")
	if err != nil {
		return domain.ProfileStats{}, err
	}
	stats.BestClog, err = r.bestEvent(ctx, ownerID, domain.EventKindCollection, "points")
	if err != nil {
		return domain.ProfileStats{}, err
	}

	return stats, nil
}

// bestEvent returns the owner's highest event of a kind by the given
// column, or nil when none exist. orderBy is one of two fixed column
// names, never user input.
func (r *TrackerRepository) bestEvent(ctx context.Context, ownerID string, kind domain.EventKind, orderBy string) (*domain.EventRecord, error) {
	query := fmt.Sprintf(`
		SELECT event_id, owner_id, kind, item_name, quantity, value, points, created_at
		FROM events
		WHERE owner_id = $1 AND kind = $2
		ORDER BY %s DESC, event_id ASC
		LIMIT 1`, orderBy)

	var ev domain.EventRecord
	err := r.db.QueryRow(ctx, query, ownerID, kind).Scan(
		&ev.ID, &ev.OwnerID, &ev.Kind, &ev.ItemName,
		&ev.Quantity, &ev.Value, &ev.Points, &ev.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting best %s: %w", kind, err)
	}
	return &ev, nil
}

func (r *TrackerRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.user_id, u.points, u.total_drops,
		       COUNT(e.event_id) FILTER (WHERE e.kind = 'collection')
		FROM users u
		LEFT JOIN events e ON e.owner_id = u.user_id
		GROUP BY u.user_id
		ORDER BY u.points DESC, u.user_id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.OwnerID, &entry.Points, &entry.TotalDrops, &entry.ClogCount); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *TrackerRepository) TopDrops(ctx context.Context, since time.Time, limit int) ([]domain.PeriodDropEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT owner_id,
		       COUNT(*),
		       COALESCE(SUM(value), 0),
		       (ARRAY_AGG(item_name ORDER BY value DESC))[1],
		       MAX(value)
		FROM events
		WHERE kind = 'drop' AND created_at >= $1
		GROUP BY owner_id
		ORDER BY SUM(value) DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top drops: %w", err)
	}
	defer rows.Close()

	var entries []domain.PeriodDropEntry
	for rows.Next() {
		var entry domain.PeriodDropEntry
		if err := rows.Scan(&entry.OwnerID, &entry.DropCount, &entry.TotalValue,
			&entry.BestDropName, &entry.BestDropValue); err != nil {
			return nil, fmt.Errorf("scanning top drops row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *TrackerRepository) TopCollections(ctx context.Context, since time.Time, limit int) ([]domain.PeriodClogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT owner_id,
		       COUNT(*),
		       COALESCE(SUM(points), 0),
		       (ARRAY_AGG(item_name ORDER BY points DESC))[1],
		       MAX(points)
		FROM events
		WHERE kind = 'collection' AND created_at >= $1
		GROUP BY owner_id
		ORDER BY SUM(points) DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top collections: %w", err)
	}
	defer rows.Close()

	var entries []domain.PeriodClogEntry
	for rows.Next() {
		var entry domain.PeriodClogEntry
		if err := rows.Scan(&entry.OwnerID, &entry.EntryCount, &entry.TotalPoints,
			&entry.BestEntryName, &entry.BestEntryScore); err != nil {
			return nil, fmt.Errorf("scanning top collections row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *TrackerRepository) ListThresholds(ctx context.Context) ([]domain.RankThreshold, error) {
	rows, err := r.db.Query(ctx, `
		SELECT points, role_name FROM rank_thresholds ORDER BY points ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying rank thresholds: %w", err)
	}
	defer rows.Close()

	var thresholds []domain.RankThreshold
	for rows.Next() {
		var t domain.RankThreshold
		if err := rows.Scan(&t.Points, &t.RoleName); err != nil {
			return nil, fmt.Errorf("scanning rank threshold: %w", err)
		}
		thresholds = append(thresholds, t)
	}
	return thresholds, rows.Err()
}
