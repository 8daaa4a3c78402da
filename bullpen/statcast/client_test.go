package statcast

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pitchCSV = `pitch_type,game_date,player_name,pitcher,events,stand,p_throws,inning_topbot,outs_on_play,woba_value,woba_denom,away_score,home_score,post_away_score,post_home_score
FF,2024-06-01,Riku Mori,650001,strikeout,L,R,Top,1.0,0.0,1.0,2,3,2,3
SL,2024-06-01,Riku Mori,650001,,R,R,Top,0,,,2,3,,
FF,2024-06-02,Lev Haas,650002,home_run,R,L,Bot,0.0,2.0,1.0,4,1,4,2
`

func TestReadPitchEventsCSV(t *testing.T) {
	events, err := readPitchEventsCSV(strings.NewReader(pitchCSV))
	require.NoError(t, err)
	require.Len(t, events, 3)

	first := events[0]
	assert.Equal(t, 650001, first.Pitcher)
	assert.Equal(t, "Riku Mori", first.PlayerName)
	assert.Equal(t, "R", first.Throws)
	assert.Equal(t, "L", first.Stand)
	assert.Equal(t, "strikeout", first.Events)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), first.GameDate)
	assert.Equal(t, 1, first.OutsOnPlay, "whole numbers exported as floats still parse")
	assert.InDelta(t, 1.0, first.WOBADenom, 1e-9)

	blank := events[1]
	assert.Empty(t, blank.Events)
	assert.Zero(t, blank.WOBAValue)
	assert.Equal(t, 2, blank.PostAwayScore, "missing post scores read as no change")
	assert.Equal(t, 3, blank.PostHomeScore)

	homer := events[2]
	assert.Equal(t, "Bot", homer.InningTopBot)
	assert.Equal(t, 1, homer.HomeScore)
	assert.Equal(t, 2, homer.PostHomeScore)
}

func TestReadPitchEventsCSVMissingColumn(t *testing.T) {
	_, err := readPitchEventsCSV(strings.NewReader("pitch_type,game_date\nFF,2024-06-01\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestFetchPitchEvents(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/statcast_search/csv", r.URL.Path)
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		_, _ = io.WriteString(w, pitchCSV)
	}))
	defer server.Close()

	client := NewClient(log.New(io.Discard), server.URL)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	events, err := client.FetchPitchEvents(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	assert.Equal(t, "2024-03-01", gotQuery["game_date_gt"])
	assert.Equal(t, "2024-06-02", gotQuery["game_date_lt"])
	assert.Equal(t, "details", gotQuery["type"])
	assert.Equal(t, "pitcher", gotQuery["player_type"])
}

func TestFetchPitchEventsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(log.New(io.Discard), server.URL)

	_, err := client.FetchPitchEvents(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorIs(t, err, ErrUpstream)
}
