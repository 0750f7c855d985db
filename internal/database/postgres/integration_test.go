package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kittyscape/lootbot/internal/database"
	"github.com/kittyscape/lootbot/internal/domain"
)

// setupTestDB starts a disposable Postgres container, applies the
// embedded migrations and returns a connected pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	var pgContainer *postgres.PostgresContainer
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping integration test, docker unavailable: %v", r)
			}
		}()
		pgContainer, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
	}()
	require.NoError(t, err, "starting postgres container")
	require.NotNil(t, pgContainer)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr))

	pool, err := database.NewPool(connStr, 4, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestTrackerRepositoryIntegration(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTrackerRepository(pool)
	ctx := context.Background()

	t.Run("insert drop updates balance", func(t *testing.T) {
		result, err := repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-a", Kind: domain.EventKindDrop,
			ItemName: "Twisted bow", Quantity: 1, Value: 1_200_000_000, Points: 12000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.OldPoints)
		assert.Equal(t, int64(12000), result.NewPoints)
		assert.NotZero(t, result.Event.ID)

		balance, err := repo.GetBalance(ctx, "user-a")
		require.NoError(t, err)
		assert.Equal(t, int64(12000), balance.Points)
		assert.Equal(t, int64(1), balance.TotalDrops)
	})

	t.Run("duplicate collection entry rejected", func(t *testing.T) {
		_, err := repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-a", Kind: domain.EventKindCollection,
			ItemName: "Abyssal whip", Quantity: 1, Points: 1145,
		})
		require.NoError(t, err)

		_, err = repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-a", Kind: domain.EventKindCollection,
			ItemName: "ABYSSAL WHIP", Quantity: 1, Points: 1145,
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

		// A different identity can log the same item.
		_, err = repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-b", Kind: domain.EventKindCollection,
			ItemName: "Abyssal whip", Quantity: 1, Points: 1145,
		})
		assert.NoError(t, err)
	})

	t.Run("delete compensates balance", func(t *testing.T) {
		inserted, err := repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-c", Kind: domain.EventKindDrop,
			ItemName: "Dragon bones", Quantity: 100, Value: 250_000, Points: 2,
		})
		require.NoError(t, err)

		result, err := repo.DeleteEvent(ctx, "user-c", inserted.Event.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.OldPoints)
		assert.Equal(t, int64(0), result.NewPoints)

		balance, err := repo.GetBalance(ctx, "user-c")
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)
		assert.Equal(t, int64(0), balance.TotalDrops)
	})

	t.Run("delete rejects foreign events", func(t *testing.T) {
		inserted, err := repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-d", Kind: domain.EventKindDrop,
			ItemName: "Coal", Quantity: 1, Value: 150, Points: 0,
		})
		require.NoError(t, err)

		_, err = repo.DeleteEvent(ctx, "user-e", inserted.Event.ID)
		assert.ErrorIs(t, err, domain.ErrEventNotOwned)

		_, err = repo.DeleteEvent(ctx, "user-d", 999999)
		assert.ErrorIs(t, err, domain.ErrEventNotOwned)
	})

	t.Run("removed collection entry can be relogged", func(t *testing.T) {
		inserted, err := repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-f", Kind: domain.EventKindCollection,
			ItemName: "Dragon pickaxe", Quantity: 1, Points: 5000,
		})
		require.NoError(t, err)

		_, err = repo.DeleteEvent(ctx, "user-f", inserted.Event.ID)
		require.NoError(t, err)

		_, err = repo.InsertEvent(ctx, domain.EventRecord{
			OwnerID: "user-f", Kind: domain.EventKindCollection,
			ItemName: "Dragon pickaxe", Quantity: 1, Points: 5000,
		})
		assert.NoError(t, err, "dedup considers live entries only")
	})

	t.Run("thresholds are seeded ascending", func(t *testing.T) {
		thresholds, err := repo.ListThresholds(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, thresholds)
		for i := 1; i < len(thresholds); i++ {
			assert.Greater(t, thresholds[i].Points, thresholds[i-1].Points)
		}
	})

	t.Run("stats and boards", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, "user-a")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.ClogCount)
		require.NotNil(t, stats.BestDrop)
		assert.Equal(t, "Twisted bow", stats.BestDrop.ItemName)

		_, err = repo.GetStats(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		board, err := repo.Leaderboard(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, board)
		assert.Equal(t, "user-a", board[0].OwnerID)

		since := time.Now().Add(-30 * 24 * time.Hour)
		drops, err := repo.TopDrops(ctx, since, 10)
		require.NoError(t, err)
		require.NotEmpty(t, drops)
		assert.Equal(t, "user-a", drops[0].OwnerID)
		assert.Equal(t, "Twisted bow", drops[0].BestDropName)

		clogs, err := repo.TopCollections(ctx, since, 10)
		require.NoError(t, err)
		assert.NotEmpty(t, clogs)
	})
}

func TestLinkingRepositoryIntegration(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewLinkingRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.UpsertLink(ctx, "user-1", "Zezima"))
	require.NoError(t, repo.UpsertLink(ctx, "user-1", "zezima"), "re-link is a no-op")
	require.NoError(t, repo.UpsertLink(ctx, "user-2", "Zezima"), "handles can be shared")

	owners, err := repo.FindOwners(ctx, "ZEZIMA")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, owners)

	links, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Zezima", links[0].Handle)

	require.NoError(t, repo.DeleteLink(ctx, "user-1", "ZeZiMa"))
	owners, err = repo.FindOwners(ctx, "Zezima")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-2"}, owners)

	require.NoError(t, repo.DeleteLink(ctx, "user-1", "Zezima"), "unlink absent is a no-op")
}
