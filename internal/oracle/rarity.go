package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/logger"
	"github.com/kittyscape/lootbot/internal/metrics"
	"github.com/kittyscape/lootbot/internal/validation"
)

// RarityOracle resolves collection-log item names to drop rates,
// expressed as a percentage chance per completion.
type RarityOracle interface {
	// Rate returns the drop rate for an item, case-insensitively.
	// Unknown items return ErrItemNotFound.
	Rate(itemName string) (float64, error)

	// Suggest returns up to limit item names starting with prefix.
	Suggest(prefix string, limit int) []string
}

type rarityEntry struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

type rarityFile struct {
	Entries []rarityEntry `json:"entries"`
}

type raritySnapshot struct {
	byName map[string]float64
	names  []string
}

// RarityFileOracle loads curated drop rates from a JSON data file,
// validated against its schema. It implements worker.Job so edits to
// the file are picked up on the refresh interval without a restart.
type RarityFileOracle struct {
	dataPath   string
	schemaPath string
	validator  validation.SchemaValidator
	snapshot   atomic.Pointer[raritySnapshot]
}

func NewRarityFileOracle(dataPath, schemaPath string) *RarityFileOracle {
	return &RarityFileOracle{
		dataPath:   dataPath,
		schemaPath: schemaPath,
		validator:  validation.NewSchemaValidator(),
	}
}

func (o *RarityFileOracle) Name() string { return "rarity-reload" }

func (o *RarityFileOracle) Process(ctx context.Context) error {
	if err := o.Reload(ctx); err != nil {
		metrics.OracleRefreshes.WithLabelValues("rarity", "error").Inc()
		return err
	}
	metrics.OracleRefreshes.WithLabelValues("rarity", "success").Inc()
	return nil
}

// Reload validates and re-reads the data file, swapping in a new
// snapshot atomically. Failures leave the previous snapshot in place.
func (o *RarityFileOracle) Reload(ctx context.Context) error {
	data, err := os.ReadFile(o.dataPath)
	if err != nil {
		return fmt.Errorf("reading rarity data: %w", err)
	}

	if err := o.validator.ValidateBytes(data, o.schemaPath); err != nil {
		return fmt.Errorf("validating rarity data: %w", err)
	}

	var file rarityFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing rarity data: %w", err)
	}

	snap := &raritySnapshot{
		byName: make(map[string]float64, len(file.Entries)),
		names:  make([]string, 0, len(file.Entries)),
	}
	for _, entry := range file.Entries {
		key := strings.ToLower(entry.Name)
		if _, dup := snap.byName[key]; dup {
			return fmt.Errorf("duplicate rarity entry %q", entry.Name)
		}
		snap.byName[key] = entry.Rate
		snap.names = append(snap.names, entry.Name)
	}
	sort.Strings(snap.names)

	o.snapshot.Store(snap)
	logger.FromContext(ctx).Info("rarity snapshot reloaded", "entries", len(snap.names))
	return nil
}

func (o *RarityFileOracle) Rate(itemName string) (float64, error) {
	snap := o.snapshot.Load()
	if snap == nil {
		return 0, fmt.Errorf("%w: rarity data not loaded yet", domain.ErrItemNotFound)
	}

	rate, ok := snap.byName[strings.ToLower(strings.TrimSpace(itemName))]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemName)
	}
	return rate, nil
}

func (o *RarityFileOracle) Suggest(prefix string, limit int) []string {
	snap := o.snapshot.Load()
	if snap == nil || limit <= 0 {
		return nil
	}
	return suggestFrom(snap.names, prefix, limit)
}
