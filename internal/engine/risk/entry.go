package risk

import (
	"fmt"
	"math"

	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// Evidence is one supporting sentence for a hazard.
type Evidence struct {
	Sentence   string
	Similarity float64
	Negated    bool
	Notes      string
}

// Observation couples per-sentence scores with their evidence.
type Observation struct {
	Likelihood float64
	Impact     float64
	Evidence   Evidence
}

// Entry accumulates observations for one hazard and, once finalized, holds
// the aggregated assessment. An entry moves through two states: collecting
// (RecordObservation allowed) and finalized (read-only).
type Entry struct {
	Hazard       *taxonomy.Hazard
	Observations []Observation
	finalized    bool

	Likelihood        float64
	Impact            float64
	Score             float64
	Rating            string
	RatingDescription string
	Treatment         string
	Acceptance        string
	DynamicKPIs       []string
}

// NewEntry starts a collecting entry for hazard.
func NewEntry(hazard *taxonomy.Hazard) *Entry {
	return &Entry{Hazard: hazard}
}

// Finalized reports whether Finalize has completed.
func (e *Entry) Finalized() bool {
	return e.finalized
}

// Evidences returns the evidence of every observation in record order.
func (e *Entry) Evidences() []Evidence {
	out := make([]Evidence, len(e.Observations))
	for i, obs := range e.Observations {
		out[i] = obs.Evidence
	}
	return out
}

// RecordObservation appends an observation. Recording after Finalize is a
// programming error and is rejected.
func (e *Entry) RecordObservation(likelihood, impact float64, evidence Evidence) error {
	if e.finalized {
		return apperrors.New(apperrors.CodeEntryFinalized, "cannot record observation on finalized entry "+e.Hazard.ID)
	}
	e.Observations = append(e.Observations, Observation{Likelihood: likelihood, Impact: impact, Evidence: evidence})
	return nil
}

// Finalize aggregates the recorded observations into the entry's final
// likelihood, impact, score, and rating. Each observation is weighted by
// 1.0 + min(0.5, similarity), discounted by 0.7 when negated. Likelihood
// gains an evidence-count bonus of min(0.7, ln(1+n) * 0.25). An entry with
// no observations cannot be finalized.
func (e *Entry) Finalize(tax *taxonomy.Taxonomy) error {
	if e.finalized {
		return apperrors.New(apperrors.CodeEntryFinalized, "entry already finalized: "+e.Hazard.ID)
	}
	if len(e.Observations) == 0 {
		return apperrors.New(apperrors.CodeEntryNotFinalized, "entry has no observations: "+e.Hazard.ID)
	}

	weights := make([]float64, len(e.Observations))
	totalWeight := 0.0
	for i, obs := range e.Observations {
		weight := 1.0 + math.Min(0.5, obs.Evidence.Similarity)
		if obs.Evidence.Negated {
			weight *= 0.7
		}
		weights[i] = weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		totalWeight = 1.0
	}

	var aggLikelihood, aggImpact float64
	for i, obs := range e.Observations {
		aggLikelihood += obs.Likelihood * weights[i]
		aggImpact += obs.Impact * weights[i]
	}
	aggLikelihood /= totalWeight
	aggImpact /= totalWeight

	evidenceBonus := math.Min(0.7, math.Log1p(float64(len(e.Observations)))*0.25)
	e.Likelihood = round2(clamp15(aggLikelihood + evidenceBonus))
	e.Impact = round2(clamp15(aggImpact))
	e.Score = round1(e.Likelihood * e.Impact)

	band := tax.Classify(e.Score)
	e.Rating = band.Label
	e.RatingDescription = band.Description
	e.Treatment = band.Treatment
	e.Acceptance = tax.Acceptance(e.Hazard.Area, e.Rating, band)
	e.DynamicKPIs = e.buildDynamicKPIs()
	e.finalized = true
	return nil
}

// buildDynamicKPIs extends the hazard's static KPI list with two indicators
// derived from the final scores: a monthly incident ceiling tied to the
// aggregated likelihood, and a zero-count target for ratings at or above
// the assigned level.
func (e *Entry) buildDynamicKPIs() []string {
	kpis := make([]string, 0, len(e.Hazard.KPIs)+2)
	kpis = append(kpis, e.Hazard.KPIs...)
	ceiling := int(math.Round(e.Likelihood))
	if ceiling < 1 {
		ceiling = 1
	}
	kpis = append(kpis, fmt.Sprintf("%s incidents per month: at most %d", e.Hazard.Event, ceiling))
	kpis = append(kpis, fmt.Sprintf("%s cases rated %s or above: keep at 0", e.Hazard.Area, e.Rating))
	return kpis
}
