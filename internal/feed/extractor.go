package feed

import (
	"strings"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/metrics"
)

// Extractor runs an ordered matcher list over every text surface of a
// message. The first matcher that succeeds anywhere wins; a message
// yields at most one candidate.
type Extractor struct {
	matchers []Matcher
}

// NewExtractor creates an extractor with the canonical matcher order.
func NewExtractor() *Extractor {
	return &Extractor{matchers: defaultMatchers()}
}

// NewExtractorWithMatchers creates an extractor with a custom matcher
// list, in priority order. Used by tests to isolate single patterns.
func NewExtractorWithMatchers(matchers []Matcher) *Extractor {
	return &Extractor{matchers: matchers}
}

// surface is one searchable piece of text plus the embed it came from,
// if any, for author/field backfill.
type surface struct {
	text  string
	embed *Embed
}

// Extract produces at most one candidate event from a message.
// Returns (nil, false) for messages that match no pattern; that is a
// normal outcome and only counted, never an error.
func (e *Extractor) Extract(env Envelope) (*Candidate, bool) {
	surfaces := collectSurfaces(env)

	for _, m := range e.matchers {
		for _, s := range surfaces {
			cand, ok := m.TryParse(s.text)
			if !ok {
				continue
			}
			if !enrich(cand, s.embed) {
				// Matched but unusable (e.g. embed drop with no author
				// to name the account); keep trying other surfaces.
				continue
			}
			return cand, true
		}
	}

	return nil, false
}

// collectSurfaces orders the searchable texts: top-level content first,
// then each embed's description, then each embed's field values.
func collectSurfaces(env Envelope) []surface {
	surfaces := make([]surface, 0, 1+len(env.Embeds))
	if strings.TrimSpace(env.Content) != "" {
		surfaces = append(surfaces, surface{text: env.Content})
	}
	for i := range env.Embeds {
		em := &env.Embeds[i]
		if strings.TrimSpace(em.Description) != "" {
			surfaces = append(surfaces, surface{text: em.Description, embed: em})
		}
		for _, f := range em.Fields {
			if strings.TrimSpace(f.Value) != "" {
				surfaces = append(surfaces, surface{text: f.Value, embed: em})
			}
		}
	}
	return surfaces
}

// enrich backfills embed-sourced candidates: the account handle comes
// from the embed author and the drop value from the "GE Value" field.
// Returns false when the candidate is unusable.
func enrich(cand *Candidate, embed *Embed) bool {
	if cand.Handle == "" {
		if embed == nil {
			return false
		}
		cand.Handle = strings.TrimSpace(embed.AuthorName)
		if cand.Handle == "" {
			return false
		}
	}

	if cand.Value == 0 && embed != nil {
		for _, f := range embed.Fields {
			if f.Name != "GE Value" || f.Value == "" {
				continue
			}
			if m := valueFieldPattern.FindStringSubmatch(f.Value); m != nil {
				cand.Value = parseAmount(m[1])
			}
		}
	}

	return cand.ItemName != ""
}

// observeOutcome counts extraction outcomes for diagnostics.
func observeOutcome(cand *Candidate, ok bool) {
	switch {
	case !ok:
		metrics.FeedMessages.WithLabelValues(metrics.OutcomeUnknown).Inc()
	case cand.Kind == domain.EventKindDrop:
		metrics.FeedMessages.WithLabelValues(metrics.OutcomeDrop).Inc()
	default:
		metrics.FeedMessages.WithLabelValues(metrics.OutcomeCollection).Inc()
	}
}
