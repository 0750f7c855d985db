// Package oracle provides item price and collection-log rarity lookups
// backed by refreshable snapshots.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/logger"
	"github.com/kittyscape/lootbot/internal/metrics"
)

const (
	defaultMappingURL = "https://prices.runescape.wiki/api/v1/osrs/mapping"
	defaultLatestURL  = "https://prices.runescape.wiki/api/v1/osrs/latest"

	// The wiki API requires a descriptive User-Agent.
	userAgent = "kittyscape-lootbot (github.com/kittyscape/lootbot)"
)

// PriceOracle resolves item names to current GE unit prices.
type PriceOracle interface {
	// UnitPrice returns the current unit price for an item name,
	// case-insensitively. Unknown items return ErrItemNotFound.
	UnitPrice(itemName string) (int64, error)

	// Suggest returns up to limit item names starting with prefix,
	// for command autocompletion.
	Suggest(prefix string, limit int) []string

	// Ready reports whether at least one snapshot has loaded.
	Ready() bool
}

type priceSnapshot struct {
	byName map[string]int64 // lowercased name to unit price
	names  []string         // original casing, sorted
}

// PriceClient is a PriceOracle fed by the wiki prices API. It also
// implements worker.Job so the scheduler can refresh it on an interval.
type PriceClient struct {
	mappingURL string
	latestURL  string
	httpClient *http.Client
	snapshot   atomic.Pointer[priceSnapshot]
}

func NewPriceClient() *PriceClient {
	return &PriceClient{
		mappingURL: defaultMappingURL,
		latestURL:  defaultLatestURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewPriceClientWithURLs is used by tests to point at a stub server.
func NewPriceClientWithURLs(mappingURL, latestURL string) *PriceClient {
	c := NewPriceClient()
	c.mappingURL = mappingURL
	c.latestURL = latestURL
	return c
}

func (c *PriceClient) Name() string { return "price-refresh" }

// Process refreshes the snapshot. Failures leave the previous snapshot
// in place.
func (c *PriceClient) Process(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		metrics.OracleRefreshes.WithLabelValues("price", "error").Inc()
		return err
	}
	metrics.OracleRefreshes.WithLabelValues("price", "success").Inc()
	return nil
}

type mappingEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type latestEntry struct {
	High int64 `json:"high"`
	Low  int64 `json:"low"`
}

type latestResponse struct {
	Data map[string]latestEntry `json:"data"`
}

// Refresh fetches the item mapping and latest prices and swaps in a new
// snapshot atomically.
func (c *PriceClient) Refresh(ctx context.Context) error {
	var mapping []mappingEntry
	if err := c.getJSON(ctx, c.mappingURL, &mapping); err != nil {
		return fmt.Errorf("fetching item mapping: %w", err)
	}

	var latest latestResponse
	if err := c.getJSON(ctx, c.latestURL, &latest); err != nil {
		return fmt.Errorf("fetching latest prices: %w", err)
	}

	snap := &priceSnapshot{
		byName: make(map[string]int64, len(mapping)),
		names:  make([]string, 0, len(mapping)),
	}
	for _, item := range mapping {
		entry, ok := latest.Data[strconv.FormatInt(item.ID, 10)]
		if !ok {
			continue
		}
		price := entry.High
		if price == 0 {
			price = entry.Low
		}
		if price == 0 {
			continue
		}
		snap.byName[strings.ToLower(item.Name)] = price
		snap.names = append(snap.names, item.Name)
	}
	sort.Strings(snap.names)

	c.snapshot.Store(snap)
	logger.FromContext(ctx).Info("price snapshot refreshed", "items", len(snap.names))
	return nil
}

func (c *PriceClient) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *PriceClient) UnitPrice(itemName string) (int64, error) {
	snap := c.snapshot.Load()
	if snap == nil {
		return 0, fmt.Errorf("%w: price data not loaded yet", domain.ErrItemNotFound)
	}

	price, ok := snap.byName[strings.ToLower(strings.TrimSpace(itemName))]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemName)
	}
	return price, nil
}

func (c *PriceClient) Suggest(prefix string, limit int) []string {
	snap := c.snapshot.Load()
	if snap == nil || limit <= 0 {
		return nil
	}
	return suggestFrom(snap.names, prefix, limit)
}

func (c *PriceClient) Ready() bool {
	return c.snapshot.Load() != nil
}

// suggestFrom returns up to limit names with the given case-insensitive
// prefix from a sorted list.
func suggestFrom(sortedNames []string, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, name := range sortedNames {
		if prefix != "" && !strings.HasPrefix(strings.ToLower(name), prefix) {
			continue
		}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}
