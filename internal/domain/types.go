package domain

import "time"

// EventKind distinguishes the two kinds of reward events in the ledger.
type EventKind string

const (
	EventKindDrop       EventKind = "drop"
	EventKindCollection EventKind = "collection"
)

// EventRecord is a single recorded drop or collection-log unlock.
// Records are immutable once written; removal deletes the row and
// compensates the owner's balance.
type EventRecord struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"` // Discord user ID
	Kind      EventKind `json:"kind"`
	ItemName  string    `json:"item_name"`
	Quantity  int64     `json:"quantity"` // drops only, 1 for collection entries
	Value     int64     `json:"value"`    // total GP value, drops only
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the cumulative points and drop count for one identity.
// Points always equals the sum of points over the identity's live events.
type Balance struct {
	Points     int64 `json:"points"`
	TotalDrops int64 `json:"total_drops"`
}

// RankThreshold maps a points cutoff to a clan role name.
type RankThreshold struct {
	Points   int64  `json:"points"`
	RoleName string `json:"role_name"`
}

// EventSummary is returned by every ledger mutation so callers can render
// a user-facing message without further queries.
type EventSummary struct {
	EventID     int64           `json:"event_id"`
	ItemName    string          `json:"item_name"`
	Kind        EventKind       `json:"kind"`
	Quantity    int64           `json:"quantity"`
	Value       int64           `json:"value"`
	PointsDelta int64           `json:"points_delta"`
	OldPoints   int64           `json:"old_points"`
	NewPoints   int64           `json:"new_points"`
	Crossed     []RankThreshold `json:"crossed,omitempty"`
	Next        *RankThreshold  `json:"next,omitempty"`
}

// RankedUp reports whether the mutation gained points across a threshold.
func (s EventSummary) RankedUp() bool {
	return s.NewPoints > s.OldPoints && len(s.Crossed) > 0
}

// RankedDown reports whether the mutation lost points across a threshold.
func (s EventSummary) RankedDown() bool {
	return s.NewPoints < s.OldPoints && len(s.Crossed) > 0
}

// LinkRecord pairs a Discord identity with a RuneScape account name.
type LinkRecord struct {
	OwnerID  string    `json:"owner_id"`
	Handle   string    `json:"handle"`
	LinkedAt time.Time `json:"linked_at"`
}

// ProfileStats backs the /stats command.
type ProfileStats struct {
	Balance      Balance        `json:"balance"`
	CurrentRank  string         `json:"current_rank"` // empty when below every threshold
	Next         *RankThreshold `json:"next,omitempty"`
	ClogCount    int64          `json:"clog_count"`
	BestDrop     *EventRecord   `json:"best_drop,omitempty"`
	BestClog     *EventRecord   `json:"best_clog,omitempty"`
	TotalGPValue int64          `json:"total_gp_value"`
}

// LeaderboardEntry is one row of the all-time leaderboard.
type LeaderboardEntry struct {
	OwnerID    string `json:"owner_id"`
	Points     int64  `json:"points"`
	TotalDrops int64  `json:"total_drops"`
	ClogCount  int64  `json:"clog_count"`
}

// PeriodDropEntry is one row of the 30-day top-droppers board.
type PeriodDropEntry struct {
	OwnerID       string `json:"owner_id"`
	DropCount     int64  `json:"drop_count"`
	TotalValue    int64  `json:"total_value"`
	BestDropName  string `json:"best_drop_name"`
	BestDropValue int64  `json:"best_drop_value"`
}

// PeriodClogEntry is one row of the 30-day top-collection-loggers board.
type PeriodClogEntry struct {
	OwnerID        string `json:"owner_id"`
	EntryCount     int64  `json:"entry_count"`
	TotalPoints    int64  `json:"total_points"`
	BestEntryName  string `json:"best_entry_name"`
	BestEntryScore int64  `json:"best_entry_score"`
}
