package statcast

import (
	"context"
	"fmt"
	"time"

	"github.com/tifye/dugout/assert"
	"github.com/tifye/dugout/storage"
)

// insertBatchSize keeps the bind parameter count per statement sane.
const insertBatchSize = 500

type PitchStore struct {
	db storage.DuckDB
}

func NewPitchStore(db storage.DuckDB) *PitchStore {
	assert.AssertNotNil(db)
	return &PitchStore{
		db: db,
	}
}

// Replace swaps the stored pitch events for a freshly fetched window.
func (s *PitchStore) Replace(ctx context.Context, events []PitchEvent) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %s", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from pitch_events`); err != nil {
		return fmt.Errorf("clear pitch events: %s", err)
	}

	query := `
	insert into pitch_events (
		pitcher,
		player_name,
		p_throws,
		stand,
		events,
		game_date,
		outs_on_play,
		woba_value,
		woba_denom,
		inning_topbot,
		away_score,
		home_score,
		post_away_score,
		post_home_score
	)
	values (
		:pitcher,
		:player_name,
		:p_throws,
		:stand,
		:events,
		:game_date,
		:outs_on_play,
		:woba_value,
		:woba_denom,
		:inning_topbot,
		:away_score,
		:home_score,
		:post_away_score,
		:post_home_score
	)
	`
	for start := 0; start < len(events); start += insertBatchSize {
		batch := events[start:min(start+insertBatchSize, len(events))]
		if _, err := tx.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("insert pitch events: %s", err)
		}
	}

	return tx.Commit()
}

func (s *PitchStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `select count(*) from pitch_events`)
	return count, err
}

// RelieverLine is one row of the summarized reliever CSV schema, with
// innings kept alongside for the qualification filter.
type RelieverLine struct {
	Name           string  `db:"name"`
	Throws         string  `db:"throws"`
	ERA            float64 `db:"era"`
	WHIP           float64 `db:"whip"`
	KPer9          float64 `db:"k9"`
	BBPer9         float64 `db:"bb9"`
	VsLeftWOBA     float64 `db:"vsl_woba"`
	VsRightWOBA    float64 `db:"vsr_woba"`
	DaysRest       int     `db:"days_rest"`
	InningsPitched float64 `db:"innings_pitched"`
}

// Summarize aggregates the stored pitch events into per-pitcher stat
// lines. Runs are scored to the batting side of each pitch, wOBA is
// split by batter stand, and pitchers without a qualifying workload
// are filtered out.
func (s *PitchStore) Summarize(ctx context.Context, endDate time.Time, minInnings float64) ([]RelieverLine, error) {
	query := `
	with totals as (
		select
			pitcher,
			mode(player_name) as name,
			upper(mode(p_throws)) as throws,
			sum(outs_on_play) / 3.0 as innings,
			sum(case when events in (
				'single', 'double', 'triple', 'home_run',
				'grand_slam', 'double_play', 'triple_play', 'force_out'
			) then 1 else 0 end) as hits,
			sum(case when events in (
				'walk', 'intent_walk', 'hit_by_pitch'
			) then 1 else 0 end) as walks,
			sum(case when events in (
				'strikeout', 'strikeout_double_play', 'strikeout_triple_play'
			) then 1 else 0 end) as strikeouts,
			sum(case when inning_topbot = 'Top'
				then post_away_score - away_score
				else post_home_score - home_score
			end) as runs,
			sum(case when stand = 'L' then woba_value else 0 end) as woba_value_l,
			sum(case when stand = 'L' then woba_denom else 0 end) as woba_denom_l,
			sum(case when stand = 'R' then woba_value else 0 end) as woba_value_r,
			sum(case when stand = 'R' then woba_denom else 0 end) as woba_denom_r,
			max(game_date) as last_game
		from pitch_events
		group by pitcher
	),
	summarized as (
		select
			name,
			throws,
			case when innings > 0 then round(runs * 9.0 / innings, 2) else 0 end as era,
			case when innings > 0 then round((walks + hits) / innings, 3) else 0 end as whip,
			case when innings > 0 then round(strikeouts * 9.0 / innings, 2) else 0 end as k9,
			case when innings > 0 then round(walks * 9.0 / innings, 2) else 0 end as bb9,
			case when woba_denom_l > 0 then round(woba_value_l / woba_denom_l, 3) else 0 end as vsl_woba,
			case when woba_denom_r > 0 then round(woba_value_r / woba_denom_r, 3) else 0 end as vsr_woba,
			datediff('day', last_game, ?::date) as days_rest,
			round(innings, 2) as innings_pitched
		from totals
	)
	select * from summarized
	where era > 0
		and days_rest >= 0
		and innings_pitched >= ?
	order by era, whip
	`

	var lines []RelieverLine
	err := s.db.SelectContext(ctx, &lines, query, endDate.Format(time.DateOnly), minInnings)
	if err != nil {
		return nil, fmt.Errorf("summarize pitch events: %s", err)
	}
	return lines, nil
}
