package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittyscape/lootbot/internal/domain"
)

func TestExtractorContentDrop(t *testing.T) {
	e := NewExtractor()

	cand, ok := e.Extract(Envelope{Content: "Zezima received: Twisted bow (1,234,567 coins)"})
	require.True(t, ok)
	assert.Equal(t, domain.EventKindDrop, cand.Kind)
	assert.Equal(t, "Zezima", cand.Handle)
	assert.Equal(t, int64(1234567), cand.Value)
}

func TestExtractorEmbedDropBackfill(t *testing.T) {
	e := NewExtractor()

	env := Envelope{
		Embeds: []Embed{{
			AuthorName:  "Zezima",
			Description: "Just got [Dragon pickaxe](https://example.org/w/Dragon_pickaxe) from lvl 376 [Kalphite Queen](https://example.org/w/Kalphite_Queen)",
			Fields: []EmbedField{
				{Name: "Kill Count", Value: "412"},
				{Name: "GE Value", Value: "```fix\n1,337,000 GP\n```"},
			},
		}},
	}

	cand, ok := e.Extract(env)
	require.True(t, ok)
	assert.Equal(t, domain.EventKindDrop, cand.Kind)
	assert.Equal(t, "Zezima", cand.Handle, "handle backfilled from embed author")
	assert.Equal(t, "Dragon pickaxe", cand.ItemName)
	assert.Equal(t, int64(1337000), cand.Value, "value backfilled from the GE Value field")
}

func TestExtractorEmbedDropWithoutAuthorIsSkipped(t *testing.T) {
	e := NewExtractor()

	env := Envelope{
		Embeds: []Embed{{
			Description: "Just got [Coal] from [Rock]",
		}},
	}

	_, ok := e.Extract(env)
	assert.False(t, ok, "embed drop with no author has no account handle")
}

func TestExtractorClogInEmbedField(t *testing.T) {
	e := NewExtractor()

	env := Envelope{
		Embeds: []Embed{{
			Fields: []EmbedField{
				{Name: "Message", Value: "**Zezima** New item added to your collection log: **Abyssal whip**"},
			},
		}},
	}

	cand, ok := e.Extract(env)
	require.True(t, ok)
	assert.Equal(t, domain.EventKindCollection, cand.Kind)
	assert.Equal(t, "Zezima", cand.Handle)
	assert.Equal(t, "Abyssal whip", cand.ItemName)
}

func TestExtractorPrecedence(t *testing.T) {
	e := NewExtractor()

	// A message carrying both a drop line and a collection line yields
	// the drop: drop matchers run first across all surfaces.
	env := Envelope{
		Content: "Zezima received a collection log item: Abyssal whip",
		Embeds: []Embed{{
			AuthorName:  "Zezima",
			Description: "Just got [Abyssal whip] from [Abyssal demon]",
		}},
	}

	cand, ok := e.Extract(env)
	require.True(t, ok)
	assert.Equal(t, domain.EventKindDrop, cand.Kind)
}

func TestExtractorNoMatch(t *testing.T) {
	e := NewExtractor()

	for _, content := range []string{
		"",
		"gz on the pet!",
		"Zezima has reached a total level of 2000",
	} {
		_, ok := e.Extract(Envelope{Content: content})
		assert.False(t, ok, "content %q should not match", content)
	}
}
