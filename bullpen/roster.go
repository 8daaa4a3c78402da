package bullpen

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tifye/dugout/assert"
)

// ErrNoData means no reliever dataset could be loaded from any
// configured path.
var ErrNoData = errors.New("no reliever data available")

const FallbackDataPath = "sample_data/relievers_2024.csv"

// Roster owns the loaded reliever list. The list is read from the
// configured CSV on first use and cached until Reload.
type Roster struct {
	logger *log.Logger
	path   string

	mu        sync.RWMutex
	relievers []Reliever
	loaded    bool
}

func NewRoster(logger *log.Logger, path string) *Roster {
	assert.AssertNotNil(logger)
	return &Roster{
		logger: logger,
		path:   path,
	}
}

// Relievers returns a copy of the loaded list, loading it on first use.
func (r *Roster) Relievers() ([]Reliever, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return slices.Clone(r.relievers), nil
	}
	r.mu.RUnlock()

	if err := r.Reload(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.relievers), nil
}

// Reload re-reads the dataset, trying the configured path then the
// bundled sample data.
func (r *Roster) Reload() error {
	candidates := []string{r.path}
	if r.path != FallbackDataPath {
		candidates = append(candidates, FallbackDataPath)
	}

	var lastErr error
	for _, path := range candidates {
		if path == "" {
			continue
		}

		relievers, err := readRelieverCSV(path)
		if err != nil {
			lastErr = err
			continue
		}

		r.mu.Lock()
		r.relievers = relievers
		r.loaded = true
		r.mu.Unlock()

		r.logger.Info("loaded relievers", "path", path, "count", len(relievers))
		return nil
	}

	if lastErr == nil {
		lastErr = ErrNoData
	}
	return fmt.Errorf("%w: %s", ErrNoData, lastErr)
}

func readRelieverCSV(path string) ([]Reliever, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %s", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %s", path, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	relievers := make([]Reliever, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %s", path, err)
		}

		reliever, err := relieverFromRecord(columns, record)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %s", path, err)
		}
		relievers = append(relievers, reliever)
	}

	if len(relievers) == 0 {
		return nil, fmt.Errorf("no relievers in %s", path)
	}
	return relievers, nil
}
