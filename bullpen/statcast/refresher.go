package statcast

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tifye/dugout/assert"
)

const DefaultMinInnings = 5.0

// SeasonStart returns March 1 of the given day's year, the default
// start of a Statcast sample window.
func SeasonStart(day time.Time) time.Time {
	return time.Date(day.Year(), time.March, 1, 0, 0, 0, 0, day.Location())
}

type RefreshOptions struct {
	// StartDate defaults to the season start for EndDate.
	StartDate time.Time
	// EndDate defaults to today.
	EndDate time.Time
	// MinInnings is the minimum innings pitched to include a reliever.
	MinInnings float64
}

type RefreshResult struct {
	RowsWritten int     `json:"rows_written"`
	OutputPath  string  `json:"output_path"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	MinInnings  float64 `json:"min_innings"`
}

// Refresher rewrites the reliever CSV from a fresh Statcast window.
type Refresher struct {
	logger *log.Logger
	client *Client
	store  *PitchStore

	outputPath string
}

func NewRefresher(logger *log.Logger, client *Client, store *PitchStore, outputPath string) *Refresher {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(client)
	assert.AssertNotNil(store)
	assert.AssertNotEmpty(outputPath)

	return &Refresher{
		logger:     logger,
		client:     client,
		store:      store,
		outputPath: outputPath,
	}
}

// Refresh fetches the window, stores it, summarizes it, and rewrites
// the reliever CSV.
func (r *Refresher) Refresh(ctx context.Context, opts RefreshOptions) (RefreshResult, error) {
	end := opts.EndDate
	if end.IsZero() {
		end = time.Now()
	}
	start := opts.StartDate
	if start.IsZero() {
		start = SeasonStart(end)
	}
	if start.After(end) {
		return RefreshResult{}, fmt.Errorf("start date %s is after end date %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	events, err := r.client.FetchPitchEvents(ctx, start, end)
	if err != nil {
		return RefreshResult{}, err
	}
	if len(events) == 0 {
		return RefreshResult{}, fmt.Errorf("%w: no pitch data returned between %s and %s",
			ErrUpstream, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	if err := r.store.Replace(ctx, events); err != nil {
		return RefreshResult{}, fmt.Errorf("store pitch events: %s", err)
	}

	lines, err := r.store.Summarize(ctx, end, opts.MinInnings)
	if err != nil {
		return RefreshResult{}, err
	}
	if len(lines) == 0 {
		return RefreshResult{}, fmt.Errorf("%w: no relievers met the filtering criteria for the provided window", ErrUpstream)
	}

	if err := writeRelieversCSV(r.outputPath, lines); err != nil {
		return RefreshResult{}, fmt.Errorf("write reliever csv: %s", err)
	}

	r.logger.Info("refreshed reliever data",
		"rows", len(lines),
		"pitches", len(events),
		"path", r.outputPath,
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
	)
	return RefreshResult{
		RowsWritten: len(lines),
		OutputPath:  r.outputPath,
		StartDate:   start.Format(time.DateOnly),
		EndDate:     end.Format(time.DateOnly),
		MinInnings:  opts.MinInnings,
	}, nil
}

func writeRelieversCSV(path string, lines []RelieverLine) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"name", "throws", "era", "whip", "k9", "bb9", "vsL_woba", "vsR_woba", "days_rest"}); err != nil {
		return err
	}
	for _, line := range lines {
		record := []string{
			line.Name,
			line.Throws,
			formatStat(line.ERA),
			formatStat(line.WHIP),
			formatStat(line.KPer9),
			formatStat(line.BBPer9),
			formatStat(line.VsLeftWOBA),
			formatStat(line.VsRightWOBA),
			strconv.Itoa(line.DaysRest),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
