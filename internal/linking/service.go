// Package linking maintains the many-to-many mapping between member
// identities and their in-game account handles.
package linking

import (
	"context"
	"fmt"
	"strings"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/logger"
)

// Handles may be at most 12 characters in game, but imported legacy
// links can be longer, so the cap is generous.
const maxHandleLength = 32

// Repository is the persistence boundary for account links.
type Repository interface {
	// UpsertLink stores a link, creating the owning user row if needed.
	// Re-linking an existing pair is a no-op.
	UpsertLink(ctx context.Context, ownerID, handle string) error

	// DeleteLink removes a link. Removing an absent link is a no-op.
	DeleteLink(ctx context.Context, ownerID, handle string) error

	// FindOwners returns the identities linked to a handle,
	// case-insensitively.
	FindOwners(ctx context.Context, handle string) ([]string, error)

	// ListByOwner returns an identity's links, oldest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.LinkRecord, error)
}

// Service manages identity to handle links.
type Service interface {
	// Link claims a handle for an identity. Idempotent.
	Link(ctx context.Context, ownerID, handle string) error

	// Unlink releases a handle claim. Idempotent.
	Unlink(ctx context.Context, ownerID, handle string) error

	// Resolve returns every identity that claimed a handle. The match
	// ignores case; an unclaimed handle yields an empty slice.
	Resolve(ctx context.Context, handle string) ([]string, error)

	// ListHandles returns an identity's claimed handles, oldest first.
	ListHandles(ctx context.Context, ownerID string) ([]domain.LinkRecord, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Link(ctx context.Context, ownerID, handle string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	if err := s.repo.UpsertLink(ctx, ownerID, handle); err != nil {
		return fmt.Errorf("linking %q to %s: %w", handle, ownerID, err)
	}

	logger.FromContext(ctx).Info("handle linked", "owner_id", ownerID, "handle", handle)
	return nil
}

func (s *service) Unlink(ctx context.Context, ownerID, handle string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteLink(ctx, ownerID, handle); err != nil {
		return fmt.Errorf("unlinking %q from %s: %w", handle, ownerID, err)
	}

	logger.FromContext(ctx).Info("handle unlinked", "owner_id", ownerID, "handle", handle)
	return nil
}

func (s *service) Resolve(ctx context.Context, handle string) ([]string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}

	owners, err := s.repo.FindOwners(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("resolving handle %q: %w", handle, err)
	}
	return owners, nil
}

func (s *service) ListHandles(ctx context.Context, ownerID string) ([]domain.LinkRecord, error) {
	links, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing handles for %s: %w", ownerID, err)
	}
	return links, nil
}

// normalizeHandle trims surrounding whitespace and validates the result.
// The stored handle keeps its original casing for display; matching is
// done case-insensitively at the repository.
func normalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", fmt.Errorf("%w: handle is empty", domain.ErrInvalidInput)
	}
	if len(handle) > maxHandleLength {
		return "", fmt.Errorf("%w: handle exceeds %d characters", domain.ErrInvalidInput, maxHandleLength)
	}
	return handle, nil
}
