package narrative

import (
	"context"
	"fmt"

	"github.com/tifye/dugout/bullpen"
)

const (
	explanationMinWords = 80
	explanationMaxWords = 120
)

type candidate struct {
	Name        string       `json:"name"`
	Throws      bullpen.Hand `json:"throws"`
	ERA         float64      `json:"era"`
	WHIP        float64      `json:"whip"`
	KPer9       float64      `json:"k9"`
	BBPer9      float64      `json:"bb9"`
	VsLeftWOBA  float64      `json:"vsL_woba"`
	VsRightWOBA float64      `json:"vsR_woba"`
	DaysRest    int          `json:"days_rest"`
	Score       float64      `json:"score"`
}

// Explanation writes the short coach's note for a ranked set. Only the
// scoring fields of the top three candidates are shared with the model.
func (c *Client) Explanation(ctx context.Context, req bullpen.RecommendationRequest, top []bullpen.Reliever) (string, error) {
	system := fmt.Sprintf(
		"You are Dugout, an MLB bullpen coach assistant. "+
			"Write a concise explanation for the top reliever using only the provided context and stats. "+
			"Stay between %d-%d words. "+
			"Highlight platoon fit, recent form, and rest considerations. "+
			"Do not invent data beyond what is provided.",
		explanationMinWords, explanationMaxWords,
	)

	if len(top) > 3 {
		top = top[:3]
	}
	candidates := make([]candidate, 0, len(top))
	for _, r := range top {
		candidates = append(candidates, candidate{
			Name:        r.Name,
			Throws:      r.Throws,
			ERA:         r.ERA,
			WHIP:        r.WHIP,
			KPer9:       r.KPer9,
			BBPer9:      r.BBPer9,
			VsLeftWOBA:  r.VsLeftWOBA,
			VsRightWOBA: r.VsRightWOBA,
			DaysRest:    r.DaysRest,
			Score:       r.Score,
		})
	}

	return c.complete(ctx, system, map[string]any{
		"game_context": req,
		"candidates":   candidates,
	})
}

// Commentary gives one or two broadcaster sentences for a play.
func (c *Client) Commentary(ctx context.Context, playDescription string, gameState, reliever any) (string, error) {
	system := "You are a play-by-play broadcaster for a major league game. " +
		"Give one or two sentences of color commentary on the play using only the provided game state and stats. " +
		"Keep it vivid but grounded. " +
		"Do not invent data beyond what is provided."

	return c.complete(ctx, system, map[string]any{
		"play_description": playDescription,
		"game_state":       gameState,
		"reliever":         reliever,
	})
}

// StrategicAdvice asks for actionable bullpen management advice. When a
// change is warranted the model is told to name the reliever so callers
// can extract a machine-readable recommendation from the prose.
func (c *Client) StrategicAdvice(ctx context.Context, gameState, currentPitcher, availableRelievers, recentPerformance any) (string, error) {
	system := "You are the bullpen coach's strategic decision assistant. " +
		"Analyze the game situation, the current pitcher's fatigue, and the available relievers, then give actionable advice. " +
		"If a change is warranted, say which reliever should warm up by name. " +
		"Do not invent data beyond what is provided."

	return c.complete(ctx, system, map[string]any{
		"game_state":          gameState,
		"current_pitcher":     currentPitcher,
		"available_relievers": availableRelievers,
		"recent_performance":  recentPerformance,
	})
}

// MatchupAnalysis weighs platoon splits for the batter at the plate.
func (c *Client) MatchupAnalysis(ctx context.Context, batterHandedness string, currentPitcher, availableRelievers, gameState any) (string, error) {
	system := "You are a matchup analysis specialist. " +
		"Weigh the batter's handedness against the current pitcher and the available relievers using their wOBA splits, and recommend the best platoon option. " +
		"Do not invent data beyond what is provided."

	return c.complete(ctx, system, map[string]any{
		"batter_handedness":   batterHandedness,
		"current_pitcher":     currentPitcher,
		"available_relievers": availableRelievers,
		"game_state":          gameState,
	})
}

// SituationalStrategy reads the game state for save, hold, and high
// leverage spots.
func (c *Client) SituationalStrategy(ctx context.Context, gameState, availableRelievers any) (string, error) {
	system := "You are a situational strategy specialist. " +
		"Read the game state for save situations, hold situations, and other high leverage spots, and recommend how the bullpen should be deployed. " +
		"Do not invent data beyond what is provided."

	return c.complete(ctx, system, map[string]any{
		"game_state":          gameState,
		"available_relievers": availableRelievers,
	})
}

// InjuryRisk assesses pitcher workload and fatigue indicators.
func (c *Client) InjuryRisk(ctx context.Context, currentPitcher, recentPerformance, usageHistory any) (string, error) {
	system := "You are a sports medicine specialist assessing pitcher workload. " +
		"Evaluate the fatigue indicators and usage patterns provided, then assess injury risk and give health recommendations. " +
		"Do not invent data beyond what is provided."

	return c.complete(ctx, system, map[string]any{
		"current_pitcher":    currentPitcher,
		"recent_performance": recentPerformance,
		"usage_history":      usageHistory,
	})
}
