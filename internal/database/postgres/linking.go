package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kittyscape/lootbot/internal/domain"
)

// LinkingRepository implements linking.Repository.
type LinkingRepository struct {
	db *pgxpool.Pool
}

func NewLinkingRepository(db *pgxpool.Pool) *LinkingRepository {
	return &LinkingRepository{db: db}
}

// UpsertLink stores a link, creating the owning user row if needed.
func (r *LinkingRepository) UpsertLink(ctx context.Context, ownerID, handle string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, ownerID)
	if err != nil {
		return fmt.Errorf("ensuring user row: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO rs_accounts (owner_id, handle)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, LOWER(handle)) DO NOTHING`, ownerID, handle)
	if err != nil {
		return fmt.Errorf("inserting link: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteLink removes a link, matching the handle case-insensitively.
func (r *LinkingRepository) DeleteLink(ctx context.Context, ownerID, handle string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM rs_accounts
		WHERE owner_id = $1 AND LOWER(handle) = LOWER($2)`, ownerID, handle)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	return nil
}

// FindOwners returns the identities that claimed a handle, oldest link
// first.
func (r *LinkingRepository) FindOwners(ctx context.Context, handle string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT owner_id FROM rs_accounts
		WHERE LOWER(handle) = LOWER($1)
		ORDER BY linked_at ASC, rs_account_id ASC`, handle)
	if err != nil {
		return nil, fmt.Errorf("querying owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var ownerID string
		if err := rows.Scan(&ownerID); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		owners = append(owners, ownerID)
	}
	return owners, rows.Err()
}

func (r *LinkingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.LinkRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT owner_id, handle, linked_at FROM rs_accounts
		WHERE owner_id = $1
		ORDER BY linked_at ASC, rs_account_id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var links []domain.LinkRecord
	for rows.Next() {
		var link domain.LinkRecord
		if err := rows.Scan(&link.OwnerID, &link.Handle, &link.LinkedAt); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
