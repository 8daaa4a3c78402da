package bullpen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tifye/dugout/assert"
)

// RecommendationRequest is the caller's situation: who is at the plate,
// how much the moment matters, and which arms are unavailable.
type RecommendationRequest struct {
	Batter   Hand     `json:"batter"`
	Leverage Leverage `json:"leverage"`
	Exclude  []string `json:"exclude"`
}

// Recommendation is the ranked answer plus the workflow notes gathered
// while producing it. Explanation is empty when no language model is
// wired in or it had nothing to say.
type Recommendation struct {
	Relievers   []Reliever
	Explanation string
	Notes       []string
}

// Recommender runs the recommendation workflow: load data, rank,
// explain, critique. The refresh and explain hooks are optional; each
// stage downgrades to a note when its hook is absent.
type Recommender struct {
	logger *log.Logger
	roster *Roster

	refresh func(ctx context.Context) (int, error)
	explain func(ctx context.Context, req RecommendationRequest, top []Reliever) (string, error)
}

func NewRecommender(logger *log.Logger, roster *Roster) *Recommender {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(roster)
	return &Recommender{
		logger: logger,
		roster: roster,
	}
}

// OnRefresh sets the hook used to rebuild the reliever data when none
// can be loaded. It reports how many rows were written.
func (r *Recommender) OnRefresh(fn func(ctx context.Context) (int, error)) {
	r.refresh = fn
}

// OnExplain sets the hook that writes the coach's note for a ranked
// set. Leave unset when no language model is configured.
func (r *Recommender) OnExplain(fn func(ctx context.Context, req RecommendationRequest, top []Reliever) (string, error)) {
	r.explain = fn
}

// Recommend ranks the roster for the request. Data failures refresh and
// retry once when a refresh hook is set; what happened along the way is
// recorded in the returned notes.
func (r *Recommender) Recommend(ctx context.Context, req RecommendationRequest) (Recommendation, error) {
	notes := []string{}

	relievers, err := r.roster.Relievers()
	if errors.Is(err, ErrNoData) && r.refresh != nil {
		rows, rerr := r.refresh(ctx)
		if rerr != nil {
			return Recommendation{}, fmt.Errorf("statcast refresh failed: %w", rerr)
		}
		notes = append(notes, fmt.Sprintf("Auto-refreshed reliever CSV with %d Statcast rows.", rows))
		relievers, err = r.roster.Relievers()
	}
	if err != nil {
		return Recommendation{}, err
	}

	scored := Rank(relievers, req.Batter, req.Leverage, req.Exclude)
	if len(scored) == 0 {
		notes = append(notes,
			"No scored relievers available for explanation.",
			"No relievers scored; nothing to critique.",
		)
		return Recommendation{Relievers: scored, Notes: notes}, nil
	}

	explanation := ""
	if r.explain == nil {
		notes = append(notes, "LLM explanation skipped (OPENAI_API_KEY not set).")
	} else {
		explanation, err = r.explain(ctx, req, scored)
		if err != nil {
			return Recommendation{}, fmt.Errorf("generate explanation: %w", err)
		}
	}

	notes = append(notes, critique(scored[0].Name, explanation))

	r.logger.Debug("recommendation",
		"batter", req.Batter,
		"leverage", req.Leverage,
		"top", scored[0].Name,
		"score", scored[0].Score,
	)
	return Recommendation{
		Relievers:   scored,
		Explanation: explanation,
		Notes:       notes,
	}, nil
}

// critique checks the explanation actually talks about the pitcher it
// is supposed to sell.
func critique(topName, explanation string) string {
	if explanation == "" {
		return "Critic: no explanation generated; deterministic ranking only."
	}
	if !strings.Contains(strings.ToLower(explanation), strings.ToLower(topName)) {
		return "Critic: explanation omitted the top candidate's name; consider regenerating."
	}
	return "Critic: explanation references the top candidate by name."
}
