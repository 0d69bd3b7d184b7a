package supplier

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
)

const (
	zeroToleranceNote = "zero-tolerance keyword detected"
	missingEvidence   = "evidence not validated: -1.0"
	defaultRationale  = "no direct evidence, base score applies"
)

// applySignals adds the keyword signal deltas of one group to base. Each
// keyword counts at most SignalCap occurrences; the group's summed delta is
// clamped to BonusCap upward and PenaltyCap downward before application.
func applySignals(base float64, signals []template.Signal, loweredContext string, positive bool,
	behavior template.ScoreBehavior, rationale *[]string) float64 {
	totalDelta := 0.0
	for _, signal := range signals {
		if signal.Keyword == "" {
			continue
		}
		occurrences := strings.Count(loweredContext, signal.Keyword)
		if occurrences == 0 {
			continue
		}
		if occurrences > behavior.SignalCap {
			occurrences = behavior.SignalCap
		}
		delta := float64(occurrences) * signal.Impact
		if !positive {
			delta = -delta
		}
		totalDelta += delta
		direction := "-"
		if delta > 0 {
			direction = "+"
		}
		*rationale = append(*rationale, fmt.Sprintf("%s %s%.1f", signal.Keyword, direction, math.Abs(delta)))
	}
	if behavior.BonusCap != nil && totalDelta > *behavior.BonusCap {
		totalDelta = *behavior.BonusCap
	}
	if behavior.PenaltyCap != nil && totalDelta < -*behavior.PenaltyCap {
		totalDelta = -*behavior.PenaltyCap
	}
	return base + totalDelta
}

// extractMetric applies the row's metric pattern to the context and returns
// the largest numeric capture, or false when nothing parses. Commas inside
// numbers are tolerated.
func extractMetric(pattern, context string) (float64, bool) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return 0, false
	}
	best := 0.0
	found := false
	for _, match := range re.FindAllStringSubmatch(context, -1) {
		capture := match[0]
		if len(match) > 1 {
			capture = match[1]
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(capture, ",", ""), 64)
		if err != nil {
			continue
		}
		if !found || value > best {
			best = value
			found = true
		}
	}
	return best, found
}

// ScoreRow scores one template row against the lowered context and its best
// evidence match. It returns the clamped row score, the rationale trail, and
// whether a critical zero-tolerance keyword fired.
func ScoreRow(row template.EvaluationRow, loweredContext string, evidence *EvidenceMatch) (float64, []string, bool) {
	behavior := row.Behavior
	var rationale []string

	for _, keyword := range behavior.ZeroTolerance {
		if keyword != "" && strings.Contains(loweredContext, keyword) {
			rationale = append(rationale, zeroToleranceNote)
			return 0.0, rationale, behavior.Critical
		}
	}

	base := row.BaseScore
	if behavior.ScoringMode == "log_scale" && behavior.MetricPattern != "" {
		if metric, ok := extractMetric(behavior.MetricPattern, loweredContext); ok {
			delta := math.Log1p(metric)
			rationale = append(rationale, fmt.Sprintf("log scale +%.1f (metric %g)", delta, metric))
			base += delta
		}
	}

	base = applySignals(base, row.NegativeSignals, loweredContext, false, behavior, &rationale)
	base = applySignals(base, row.PositiveSignals, loweredContext, true, behavior, &rationale)

	validated := evidence != nil && evidence.Valid
	if behavior.RequiresEvidence && !validated {
		rationale = append(rationale, missingEvidence)
		base -= 1.0
	}
	if validated {
		sentence := strings.TrimSpace(evidence.Sentence)
		if len([]rune(sentence)) > 120 {
			sentence = string([]rune(sentence)[:120])
		}
		rationale = append(rationale, "evidence: "+sentence)
		if evidence.Reason != "" {
			rationale = append(rationale, "evidence check: "+evidence.Reason)
		}
	}

	score := round2(clamp05(base))
	if len(rationale) == 0 {
		rationale = append(rationale, defaultRationale)
	}
	return score, rationale, false
}

func clamp05(v float64) float64 {
	return math.Max(0.0, math.Min(5.0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
