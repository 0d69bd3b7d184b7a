// Package taxonomy defines the hazard taxonomy: the universe of risk items
// the engine can recognise, the rating matrix used to classify scores, and
// the modifier vocabularies applied during sentence scoring.
package taxonomy

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// Hazard is a single recognisable risk item.
type Hazard struct {
	ID          string
	Area        string
	Source      string
	Event       string
	Consequence string
	Keywords    []string
	Synonyms    []string

	// DefaultLikelihood and DefaultImpact seed every observation before
	// modifier and negation adjustments, on a 1..5 scale.
	DefaultLikelihood float64
	DefaultImpact     float64

	Controls   []string
	Treatments []string
	KPIs       []string

	// MinSimilarity is the per-hazard retrieval floor. Candidate spans
	// scoring below it are discarded.
	MinSimilarity float64
}

// Query renders the hazard as a retrieval query: keywords, synonyms, event
// and source joined by single spaces, empty tokens skipped.
func (h *Hazard) Query() string {
	tokens := make([]string, 0, len(h.Keywords)+len(h.Synonyms)+2)
	tokens = append(tokens, h.Keywords...)
	tokens = append(tokens, h.Synonyms...)
	tokens = append(tokens, h.Event, h.Source)
	parts := tokens[:0]
	for _, token := range tokens {
		if token != "" {
			parts = append(parts, token)
		}
	}
	return strings.Join(parts, " ")
}

// MatchTerms returns the keyword and synonym list used for negation
// detection.
func (h *Hazard) MatchTerms() []string {
	terms := make([]string, 0, len(h.Keywords)+len(h.Synonyms))
	terms = append(terms, h.Keywords...)
	terms = append(terms, h.Synonyms...)
	return terms
}

// RatingBand is one row of the rating matrix.
type RatingBand struct {
	MinScore    int
	Label       string
	Description string
	Treatment   string
	Acceptance  string
}

// ModifierVocabulary holds the phrase lists that shift a score up or down.
type ModifierVocabulary struct {
	Increase []string
	Decrease []string
}

// Taxonomy is the parsed, validated hazard taxonomy.
type Taxonomy struct {
	Version string
	Hazards []Hazard

	// Bands is sorted by MinScore descending; classification walks it
	// top-down and takes the first band the score reaches.
	Bands []RatingBand

	// AcceptanceRules maps area -> rating label -> acceptance status,
	// overriding the band default for specific areas.
	AcceptanceRules map[string]map[string]string

	// NegationTokens mark mitigation phrasing. A sentence is treated as
	// negated only when it mentions a hazard term and one of these tokens.
	NegationTokens []string

	LikelihoodModifiers ModifierVocabulary
	ImpactModifiers     ModifierVocabulary

	// MaterialityImpacts maps area -> narrative used in the triple
	// materiality table. Areas without an entry render empty cells.
	MaterialityImpacts map[string]MaterialityProfile
}

// MaterialityProfile describes how risks in one area propagate beyond the
// organisation, for the triple materiality view.
type MaterialityProfile struct {
	SupplyChain string
	Stakeholder string
	Systemic    string
}

type taxonomyFile struct {
	Version   string `json:"version"`
	RiskItems []struct {
		ID                string   `json:"id"`
		Area              string   `json:"area"`
		RiskSource        string   `json:"risk_source"`
		Event             string   `json:"event"`
		Consequence       string   `json:"consequence"`
		Keywords          []string `json:"keywords"`
		Synonyms          []string `json:"synonyms"`
		DefaultLikelihood *float64 `json:"default_likelihood"`
		DefaultImpact     *float64 `json:"default_impact"`
		Controls          []string `json:"controls"`
		Treatments        []string `json:"treatments"`
		KPI               []string `json:"kpi"`
		MinSimilarity     *float64 `json:"min_similarity"`
	} `json:"risk_items"`
	RatingMatrix []struct {
		MinScore    *int   `json:"min_score"`
		Label       string `json:"label"`
		Description string `json:"description"`
		Treatment   string `json:"treatment"`
		Acceptance  string `json:"acceptance"`
	} `json:"rating_matrix"`
	AcceptanceRules     map[string]map[string]string `json:"acceptance_rules"`
	NegationTokens      []string                     `json:"negation_tokens"`
	LikelihoodModifiers modifierFile                 `json:"likelihood_modifiers"`
	ImpactModifiers     modifierFile                 `json:"impact_modifiers"`
	MaterialityImpacts  map[string]materialityFile   `json:"materiality_impacts"`
}

type materialityFile struct {
	SupplyChain string `json:"supply_chain"`
	Stakeholder string `json:"stakeholder"`
	Systemic    string `json:"systemic"`
}

type modifierFile struct {
	Increase []string `json:"increase"`
	Decrease []string `json:"decrease"`
}

// Parse decodes and validates a taxonomy document.
func Parse(data []byte) (*Taxonomy, error) {
	var file taxonomyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSerialization, "failed to decode taxonomy document")
	}

	tax := &Taxonomy{
		Version:         file.Version,
		AcceptanceRules: map[string]map[string]string{},
		NegationTokens:  file.NegationTokens,
		LikelihoodModifiers: ModifierVocabulary{
			Increase: file.LikelihoodModifiers.Increase,
			Decrease: file.LikelihoodModifiers.Decrease,
		},
		ImpactModifiers: ModifierVocabulary{
			Increase: file.ImpactModifiers.Increase,
			Decrease: file.ImpactModifiers.Decrease,
		},
	}

	for _, item := range file.RiskItems {
		hazard := Hazard{
			ID:                item.ID,
			Area:              item.Area,
			Source:            item.RiskSource,
			Event:             item.Event,
			Consequence:       item.Consequence,
			Keywords:          item.Keywords,
			Synonyms:          item.Synonyms,
			DefaultLikelihood: 3.0,
			DefaultImpact:     3.0,
			Controls:          item.Controls,
			Treatments:        item.Treatments,
			KPIs:              item.KPI,
			MinSimilarity:     0.3,
		}
		if hazard.ID == "" {
			hazard.ID = "UNKNOWN"
		}
		if hazard.Area == "" {
			hazard.Area = "General"
		}
		if item.DefaultLikelihood != nil {
			hazard.DefaultLikelihood = *item.DefaultLikelihood
		}
		if item.DefaultImpact != nil {
			hazard.DefaultImpact = *item.DefaultImpact
		}
		if item.MinSimilarity != nil {
			hazard.MinSimilarity = *item.MinSimilarity
		}
		tax.Hazards = append(tax.Hazards, hazard)
	}
	if len(tax.Hazards) == 0 {
		return nil, apperrors.New(apperrors.CodeTaxonomyEmpty, "taxonomy defines no risk items")
	}

	for _, band := range file.RatingMatrix {
		parsed := RatingBand{
			MinScore:    1,
			Label:       "Low",
			Description: band.Description,
			Treatment:   band.Treatment,
			Acceptance:  band.Acceptance,
		}
		if band.MinScore != nil {
			parsed.MinScore = *band.MinScore
		}
		if band.Label != "" {
			parsed.Label = band.Label
		}
		if parsed.Acceptance == "" {
			parsed.Acceptance = "accept"
		}
		tax.Bands = append(tax.Bands, parsed)
	}
	if len(tax.Bands) == 0 {
		return nil, apperrors.New(apperrors.CodeRatingBandsEmpty, "taxonomy defines no rating matrix")
	}
	sort.SliceStable(tax.Bands, func(i, j int) bool {
		return tax.Bands[i].MinScore > tax.Bands[j].MinScore
	})

	for area, mapping := range file.AcceptanceRules {
		rules := make(map[string]string, len(mapping))
		for label, status := range mapping {
			rules[label] = status
		}
		tax.AcceptanceRules[area] = rules
	}

	tax.MaterialityImpacts = make(map[string]MaterialityProfile, len(file.MaterialityImpacts))
	for area, profile := range file.MaterialityImpacts {
		tax.MaterialityImpacts[area] = MaterialityProfile{
			SupplyChain: profile.SupplyChain,
			Stakeholder: profile.Stakeholder,
			Systemic:    profile.Systemic,
		}
	}

	return tax, nil
}

// MaterialityFor returns the triple materiality narrative for an area, or a
// zero profile when the taxonomy does not describe the area.
func (t *Taxonomy) MaterialityFor(area string) MaterialityProfile {
	return t.MaterialityImpacts[area]
}

// LoadFile reads and parses the taxonomy document at path.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigMissing, "taxonomy file not found: "+path)
	}
	return Parse(data)
}

// Classify returns the first band (highest MinScore first) that score
// reaches, falling back to the weakest band.
func (t *Taxonomy) Classify(score float64) RatingBand {
	for _, band := range t.Bands {
		if score >= float64(band.MinScore) {
			return band
		}
	}
	return t.Bands[len(t.Bands)-1]
}

// Acceptance resolves the acceptance status for an area and rating label.
// Area-specific rules win; otherwise the band default applies.
func (t *Taxonomy) Acceptance(area, rating string, band RatingBand) string {
	if rules, ok := t.AcceptanceRules[area]; ok {
		if status, ok := rules[rating]; ok {
			return status
		}
	}
	return band.Acceptance
}
