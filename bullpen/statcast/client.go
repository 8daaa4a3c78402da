// Package statcast rebuilds the reliever dataset from pitch-level
// Statcast data: fetch the raw pitch events for a date window, load
// them into DuckDB, and summarize them into the CSV schema the roster
// reads.
package statcast

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tifye/dugout/assert"
)

const DefaultBaseURL = "https://baseballsavant.mlb.com"

// ErrUpstream marks failures getting usable pitch data out of Statcast,
// as opposed to local failures writing it down.
var ErrUpstream = errors.New("statcast upstream")

// PitchEvent is one pitch of play-by-play data, trimmed to the columns
// the reliever summary needs.
type PitchEvent struct {
	Pitcher       int       `db:"pitcher"`
	PlayerName    string    `db:"player_name"`
	Throws        string    `db:"p_throws"`
	Stand         string    `db:"stand"`
	Events        string    `db:"events"`
	GameDate      time.Time `db:"game_date"`
	OutsOnPlay    int       `db:"outs_on_play"`
	WOBAValue     float64   `db:"woba_value"`
	WOBADenom     float64   `db:"woba_denom"`
	InningTopBot  string    `db:"inning_topbot"`
	AwayScore     int       `db:"away_score"`
	HomeScore     int       `db:"home_score"`
	PostAwayScore int       `db:"post_away_score"`
	PostHomeScore int       `db:"post_home_score"`
}

type Client struct {
	logger  *log.Logger
	baseURL string

	httpClient *http.Client
}

func NewClient(logger *log.Logger, baseURL string) *Client {
	assert.AssertNotNil(logger)

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		httpClient: &http.Client{
			// a full season window is a large export
			Timeout: 2 * time.Minute,
		},
	}
}

// FetchPitchEvents downloads the pitch-level CSV for an inclusive date
// window.
func (c *Client) FetchPitchEvents(ctx context.Context, start, end time.Time) ([]PitchEvent, error) {
	params := url.Values{}
	params.Set("all", "true")
	params.Set("type", "details")
	params.Set("player_type", "pitcher")
	params.Set("game_date_gt", start.Format(time.DateOnly))
	params.Set("game_date_lt", end.Format(time.DateOnly))

	endpoint := fmt.Sprintf("%s/statcast_search/csv?%s", c.baseURL, params.Encode())
	c.logger.Debug("fetching pitch events", "start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	events, err := readPitchEventsCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}

	c.logger.Debug("fetched pitch events", "count", len(events))
	return events, nil
}

func readPitchEventsCSV(r io.Reader) ([]PitchEvent, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %s", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	events := []PitchEvent{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %s", err)
		}

		event, err := pitchEventFromRecord(columns, record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %s", len(events)+1, err)
		}
		events = append(events, event)
	}

	return events, nil
}

func pitchEventFromRecord(columns map[string]int, record []string) (PitchEvent, error) {
	var firstErr error
	str := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			if firstErr == nil {
				firstErr = fmt.Errorf("missing column %q", name)
			}
			return ""
		}
		return record[i]
	}
	num := func(name string) int {
		raw := str(name)
		if raw == "" {
			return 0
		}
		// savant exports whole numbers as floats, e.g. "1.0"
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("column %q: %s", name, err)
		}
		return int(v)
	}
	f64 := func(name string) float64 {
		raw := str(name)
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("column %q: %s", name, err)
		}
		return v
	}

	event := PitchEvent{
		Pitcher:      num("pitcher"),
		PlayerName:   str("player_name"),
		Throws:       str("p_throws"),
		Stand:        str("stand"),
		Events:       str("events"),
		OutsOnPlay:   num("outs_on_play"),
		WOBAValue:    f64("woba_value"),
		WOBADenom:    f64("woba_denom"),
		InningTopBot: str("inning_topbot"),
		AwayScore:    num("away_score"),
		HomeScore:    num("home_score"),
	}

	date, err := time.Parse(time.DateOnly, str("game_date"))
	if err != nil && firstErr == nil {
		firstErr = fmt.Errorf("column %q: %s", "game_date", err)
	}
	event.GameDate = date

	// A missing post score means the play changed nothing, so reading
	// it as the pre-play score keeps the run delta at zero.
	if raw := str("post_away_score"); raw == "" {
		event.PostAwayScore = event.AwayScore
	} else {
		event.PostAwayScore = num("post_away_score")
	}
	if raw := str("post_home_score"); raw == "" {
		event.PostHomeScore = event.HomeScore
	} else {
		event.PostHomeScore = num("post_home_score")
	}

	if firstErr != nil {
		return PitchEvent{}, firstErr
	}
	return event, nil
}
