// Package feed extracts reward events from the RuneLite webhook channel
// and pushes them through the ledger.
package feed

import "github.com/kittyscape/lootbot/internal/domain"

// EmbedField is one named key/value pair inside a message embed.
type EmbedField struct {
	Name  string
	Value string
}

// Embed is the subset of a rich message embed the extractor cares about.
type Embed struct {
	AuthorName  string
	Description string
	Fields      []EmbedField
}

// Envelope is a platform-neutral view of an inbound feed message.
type Envelope struct {
	Content string
	Embeds  []Embed
}

// Candidate is a structured event extracted from a feed message, before
// identity resolution. Handle may be empty for embed-sourced drops until
// the extractor fills it from the embed author.
type Candidate struct {
	Kind     domain.EventKind
	Handle   string
	ItemName string
	Quantity int64
	Value    int64 // total gp value, drops only
}
