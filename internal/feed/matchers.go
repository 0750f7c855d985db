package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kittyscape/lootbot/internal/domain"
)

// Matcher turns one line of feed text into an event candidate.
// Implementations must be safe for concurrent use.
type Matcher interface {
	Name() string
	TryParse(text string) (*Candidate, bool)
}

// Patterns for the message formats the RuneLite plugins emit. The order
// of defaultMatchers is the precedence order: drops before collection
// log entries, plain text before embed text within each kind.
var (
	// "Zezima received: Twisted bow (1,234,567 coins)" with an optional
	// "(3x)" quantity marker after the item name.
	plainDropPattern = regexp.MustCompile(`^(.+?) received:? (.+?)(?: \((\d+)x\))? \(([0-9,]+) coins\)$`)

	// "Just got [Coal] from [Monster]", with optional "5x" quantity,
	// optional markdown link targets, and an optional "lvl 98" source
	// prefix. Item links may or may not carry a URL.
	embedDropPattern = regexp.MustCompile(`Just got (?:(\d+)x\s+)?\[(.+?)(?:\]\(.+?\)|\])\s+from(?:\s+lvl\s+\d+)?\s+\[(.+?)(?:\]\(.+?\)|\])`)

	// "**Zezima** New item added to your collection log: **Dragon pickaxe**"
	boldClogPattern = regexp.MustCompile(`\*\*(.+?)\*\*\s+New item added to your collection log: \*\*(.+?)\*\*`)

	// "Zezima received a collection log item: Dragon pickaxe"
	legacyClogPattern = regexp.MustCompile(`^(.+?) received a collection log item: (.+)$`)

	// The "GE Value" embed field wraps the amount in a fix code fence:
	// ```fix\n1,234,567 GP\n```
	valueFieldPattern = regexp.MustCompile("```fix\\s*([0-9,]+) GP\\s*```")
)

// defaultMatchers returns the canonical ordered matcher list.
func defaultMatchers() []Matcher {
	return []Matcher{
		plainDropMatcher{},
		embedDropMatcher{},
		boldClogMatcher{},
		legacyClogMatcher{},
	}
}

type plainDropMatcher struct{}

func (plainDropMatcher) Name() string { return "drop/plain" }

func (plainDropMatcher) TryParse(text string) (*Candidate, bool) {
	m := plainDropPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	handle := strings.TrimSpace(m[1])
	item := strings.TrimSpace(m[2])
	if handle == "" || item == "" {
		return nil, false
	}

	return &Candidate{
		Kind:     domain.EventKindDrop,
		Handle:   handle,
		ItemName: item,
		Quantity: parseQuantity(m[3]),
		Value:    parseAmount(m[4]),
	}, true
}

type embedDropMatcher struct{}

func (embedDropMatcher) Name() string { return "drop/embed" }

func (embedDropMatcher) TryParse(text string) (*Candidate, bool) {
	m := embedDropPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	item := strings.TrimSpace(m[2])
	if item == "" {
		return nil, false
	}

	// Handle and value are not present in the description; the extractor
	// backfills them from the embed author and the GE Value field.
	return &Candidate{
		Kind:     domain.EventKindDrop,
		ItemName: item,
		Quantity: parseQuantity(m[1]),
	}, true
}

type boldClogMatcher struct{}

func (boldClogMatcher) Name() string { return "clog/bold" }

func (boldClogMatcher) TryParse(text string) (*Candidate, bool) {
	m := boldClogPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return clogCandidate(m[1], m[2])
}

type legacyClogMatcher struct{}

func (legacyClogMatcher) Name() string { return "clog/legacy" }

func (legacyClogMatcher) TryParse(text string) (*Candidate, bool) {
	m := legacyClogPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return clogCandidate(m[1], m[2])
}

func clogCandidate(handle, item string) (*Candidate, bool) {
	handle = strings.TrimSpace(handle)
	item = strings.TrimSpace(item)
	if handle == "" || item == "" {
		return nil, false
	}
	return &Candidate{
		Kind:     domain.EventKindCollection,
		Handle:   handle,
		ItemName: item,
		Quantity: 1,
	}, true
}

// parseQuantity parses an optional quantity capture, defaulting to 1.
func parseQuantity(s string) int64 {
	if s == "" {
		return 1
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// parseAmount parses a digit string with optional thousands separators.
func parseAmount(s string) int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
