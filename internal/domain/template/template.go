// Package template defines supplier evaluation templates: the scored rows,
// grade thresholds, and global signal dictionaries an evaluation runs
// against. Templates are plain JSON documents selected by industry tag.
package template

import (
	"encoding/json"
	"sort"
	"strings"

	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// ScoreBehavior captures the per-item scoring switches.
type ScoreBehavior struct {
	// ScoringMode is "additive" (default) or "log_scale". In log_scale mode
	// MetricPattern extracts a numeric metric whose ln(1+x) is added to the
	// base score.
	ScoringMode   string
	MetricPattern string

	// ZeroTolerance keywords force the row score to 0 on sight; Critical
	// additionally pins the whole evaluation to the worst grade.
	ZeroTolerance []string
	Critical      bool

	// RequiresEvidence deducts 1.0 when no validated evidence sentence
	// supports the row.
	RequiresEvidence bool

	// BonusCap / PenaltyCap clamp the summed delta of one signal group.
	// SignalCap bounds how many occurrences of a single keyword count.
	BonusCap   *float64
	PenaltyCap *float64
	SignalCap  int

	// IndustryOverrides scales the row weight for matching industries.
	IndustryOverrides map[string]float64
}

// Signal pairs a lowered keyword with its score impact.
type Signal struct {
	Keyword string
	Impact  float64
}

// EvaluationRow is one scored line of the template. Weight is the product of
// the area weight and the item weight.
type EvaluationRow struct {
	Area             string
	Item             string
	Criterion        string
	Weight           float64
	BaseScore        float64
	PositiveSignals  []Signal
	NegativeSignals  []Signal
	EvidenceKeywords []string
	Synonyms         []string
	Behavior         ScoreBehavior
}

// GradeThreshold maps a score ratio floor to a grade.
type GradeThreshold struct {
	Grade    string
	MinRatio float64
	Label    string
}

// Bundle is a parsed supplier evaluation template.
type Bundle struct {
	Name    string
	Version string

	// Tags are lowered industry tags; selection matches any tag contained
	// in the requested industry string.
	Tags []string

	Rows []EvaluationRow

	// Thresholds is sorted by MinRatio descending; grading walks it
	// top-down. Always non-empty after parsing.
	Thresholds []GradeThreshold

	// GlobalPositive / GlobalNegative are template-wide signal dictionaries
	// applied once to the whole context, outside any row.
	GlobalPositive []Signal
	GlobalNegative []Signal
}

type templateFile struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	IndustryTags []string `json:"industry_tags"`
	Areas        []struct {
		Name   string   `json:"name"`
		Weight *float64 `json:"weight"`
		Items  []struct {
			Name            string       `json:"name"`
			Criterion       string       `json:"criterion"`
			Weight          *float64     `json:"weight"`
			BaseScore       *float64     `json:"base_score"`
			PositiveSignals []signalFile `json:"positive_signals"`
			NegativeSignals []signalFile `json:"negative_signals"`
			EvidenceKeys    []string     `json:"evidence_keywords"`
			Synonyms        []string     `json:"synonyms"`

			ScoringMode      string             `json:"scoring_mode"`
			MetricPattern    string             `json:"metric_pattern"`
			ZeroTolerance    []string           `json:"zero_tolerance_keywords"`
			Critical         bool               `json:"critical"`
			RequiresEvidence bool               `json:"requires_evidence"`
			BonusCap         *float64           `json:"bonus_cap"`
			PenaltyCap       *float64           `json:"penalty_cap"`
			SignalCap        *int               `json:"signal_cap"`
			AreaOverrides    map[string]float64 `json:"area_overrides"`
		} `json:"items"`
	} `json:"areas"`
	GradeThresholds []struct {
		Grade    string   `json:"grade"`
		MinRatio *float64 `json:"min_ratio"`
		Label    string   `json:"label"`
	} `json:"grade_thresholds"`
	GlobalPositive map[string]float64 `json:"global_positive_signals"`
	GlobalNegative map[string]float64 `json:"global_negative_signals"`
}

type signalFile struct {
	Keyword string   `json:"keyword"`
	Impact  *float64 `json:"impact"`
}

// Normalize lowers and trims a tag or industry string for matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseSignals(entries []signalFile) []Signal {
	var signals []Signal
	for _, entry := range entries {
		if entry.Keyword == "" {
			continue
		}
		impact := 1.0
		if entry.Impact != nil {
			impact = *entry.Impact
		}
		signals = append(signals, Signal{Keyword: strings.ToLower(entry.Keyword), Impact: impact})
	}
	return signals
}

func parseSignalMap(entries map[string]float64) []Signal {
	signals := make([]Signal, 0, len(entries))
	for keyword, impact := range entries {
		if keyword == "" {
			continue
		}
		signals = append(signals, Signal{Keyword: strings.ToLower(keyword), Impact: impact})
	}
	// Map iteration order is random; keep output deterministic.
	sort.Slice(signals, func(i, j int) bool { return signals[i].Keyword < signals[j].Keyword })
	return signals
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}

// Parse decodes a template document. sourceName is used as the bundle name
// when the document does not carry one.
func Parse(data []byte, sourceName string) (*Bundle, error) {
	var file templateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTemplateInvalid, "failed to decode template document "+sourceName)
	}

	bundle := &Bundle{
		Name:           file.Name,
		Version:        file.Version,
		GlobalPositive: parseSignalMap(file.GlobalPositive),
		GlobalNegative: parseSignalMap(file.GlobalNegative),
	}
	if bundle.Name == "" {
		bundle.Name = sourceName
	}
	if bundle.Version == "" {
		bundle.Version = "Supplier Template"
	}
	for _, tag := range file.IndustryTags {
		bundle.Tags = append(bundle.Tags, Normalize(tag))
	}

	for _, area := range file.Areas {
		areaName := area.Name
		if areaName == "" {
			areaName = "Uncategorized"
		}
		areaWeight := 1.0
		if area.Weight != nil {
			areaWeight = *area.Weight
		}
		for _, item := range area.Items {
			itemWeight := 1.0
			if item.Weight != nil {
				itemWeight = *item.Weight
			}
			baseScore := 3.0
			if item.BaseScore != nil {
				baseScore = *item.BaseScore
			}
			behavior := ScoreBehavior{
				ScoringMode:      item.ScoringMode,
				MetricPattern:    item.MetricPattern,
				ZeroTolerance:    lowerAll(item.ZeroTolerance),
				Critical:         item.Critical,
				RequiresEvidence: item.RequiresEvidence,
				BonusCap:         item.BonusCap,
				PenaltyCap:       item.PenaltyCap,
				SignalCap:        3,
			}
			if behavior.ScoringMode == "" {
				behavior.ScoringMode = "additive"
			}
			if item.SignalCap != nil {
				behavior.SignalCap = *item.SignalCap
			}
			if len(item.AreaOverrides) > 0 {
				behavior.IndustryOverrides = make(map[string]float64, len(item.AreaOverrides))
				for industry, factor := range item.AreaOverrides {
					behavior.IndustryOverrides[Normalize(industry)] = factor
				}
			}
			bundle.Rows = append(bundle.Rows, EvaluationRow{
				Area:             areaName,
				Item:             item.Name,
				Criterion:        item.Criterion,
				Weight:           areaWeight * itemWeight,
				BaseScore:        baseScore,
				PositiveSignals:  parseSignals(item.PositiveSignals),
				NegativeSignals:  parseSignals(item.NegativeSignals),
				EvidenceKeywords: lowerAll(item.EvidenceKeys),
				Synonyms:         lowerAll(item.Synonyms),
				Behavior:         behavior,
			})
		}
	}

	for _, entry := range file.GradeThresholds {
		threshold := GradeThreshold{Grade: "C", Label: entry.Label}
		if entry.Grade != "" {
			threshold.Grade = entry.Grade
		}
		if entry.MinRatio != nil {
			threshold.MinRatio = *entry.MinRatio
		}
		bundle.Thresholds = append(bundle.Thresholds, threshold)
	}
	sort.SliceStable(bundle.Thresholds, func(i, j int) bool {
		return bundle.Thresholds[i].MinRatio > bundle.Thresholds[j].MinRatio
	})
	if len(bundle.Thresholds) == 0 {
		bundle.Thresholds = []GradeThreshold{{Grade: "C", MinRatio: 0.0, Label: "default"}}
	}

	return bundle, nil
}

// RowWeight returns the effective weight of row for the given normalized
// industry, applying the row's industry override when one matches.
func RowWeight(row EvaluationRow, industry string) float64 {
	factor := 1.0
	if f, ok := row.Behavior.IndustryOverrides[industry]; ok {
		factor = f
	}
	return row.Weight * factor
}
