package supplier

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
	"github.com/turtacn/ESG-Sentinel/internal/engine/match"
	"github.com/turtacn/ESG-Sentinel/internal/engine/textseg"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
)

// Request describes one supplier evaluation.
type Request struct {
	Supplier  string
	Industry  string
	Context   string
	Documents []string
}

// RowResult is the scored outcome of one template row.
type RowResult struct {
	Area           string
	Item           string
	Criterion      string
	Score          float64
	Weight         float64
	Rationale      []string
	Evidence       string
	EvidenceReason string
}

// Result is a completed supplier evaluation.
type Result struct {
	Supplier string
	Industry string
	Template string
	Version  string

	Rows     []RowResult
	Total    float64
	MaxScore float64
	Grade    GradeInfo

	PositiveSignals []SignalHit
	NegativeSignals []SignalHit

	// Risks lists rows scoring at most 2.5, Strengths rows scoring at
	// least 4.0, both as "area-item (score)" labels in row order.
	Risks     []string
	Strengths []string
}

// Summary renders the one-line outcome used in reports and logs.
func (r *Result) Summary() string {
	s := fmt.Sprintf("weighted total %.1f of %.1f, grade %s (%s)",
		r.Total, r.MaxScore, r.Grade.Grade, r.Grade.Label)
	if r.Grade.Note != "" {
		s += " | " + r.Grade.Note
	}
	return s
}

// Engine evaluates suppliers against the template store.
type Engine struct {
	templates *template.Store
	indexer   match.Indexer
	validator *Validator
	extractor SignalExtractor
	logger    logging.Logger

	maxSentences int
	topK         int
	countUnits   func(n int)
}

// NewEngine wires the evaluation dependencies. extractor may be nil.
func NewEngine(templates *template.Store, indexer match.Indexer, validator *Validator,
	extractor SignalExtractor, logger logging.Logger, maxSentences, topK int) *Engine {
	return &Engine{
		templates:    templates,
		indexer:      indexer,
		validator:    validator,
		extractor:    extractor,
		logger:       logger.Named("supplier.engine"),
		maxSentences: maxSentences,
		topK:         topK,
	}
}

// SetUnitCounter registers a callback receiving the number of context
// sentences extracted per evaluation. Used to feed metrics.
func (e *Engine) SetUnitCounter(fn func(n int)) {
	e.countUnits = fn
}

// Template returns the bundle selected for an industry.
func (e *Engine) Template(industry string) *template.Bundle {
	return e.templates.Select(industry)
}

// buildQuery renders a row as a retrieval query from its item name and
// synonyms, dropping tokens shorter than two runes.
func buildQuery(row template.EvaluationRow) string {
	tokens := make([]string, 0, 1+len(row.Synonyms))
	tokens = append(tokens, row.Item)
	tokens = append(tokens, row.Synonyms...)
	parts := tokens[:0]
	for _, token := range tokens {
		if token != "" && utf8.RuneCountInString(token) >= 2 {
			parts = append(parts, token)
		}
	}
	return strings.Join(parts, " ")
}

// contextChunks merges the request's documents and context into one capped
// sentence list. An input with no extractable sentences degrades to the raw
// trimmed context so the evaluation still runs.
func (e *Engine) contextChunks(req Request) []string {
	var sentences []string
	for _, doc := range req.Documents {
		sentences = append(sentences, textseg.Split(doc)...)
	}
	if req.Context != "" {
		sentences = append(sentences, textseg.Split(req.Context)...)
	}
	if e.maxSentences > 0 && len(sentences) > e.maxSentences {
		sentences = sentences[:e.maxSentences]
	}
	if len(sentences) == 0 {
		return []string{strings.TrimSpace(req.Context)}
	}
	return sentences
}

// Evaluate scores req against the template selected for its industry.
func (e *Engine) Evaluate(ctx context.Context, req Request) (*Result, error) {
	bundle := e.templates.Select(req.Industry)
	industry := template.Normalize(req.Industry)
	chunks := e.contextChunks(req)
	if e.countUnits != nil {
		e.countUnits(len(chunks))
	}
	loweredContext := strings.ToLower(strings.Join(chunks, " \n"))

	candidates := make([]match.Candidate, len(chunks))
	for i, chunk := range chunks {
		candidates[i] = match.Candidate{Text: chunk, Kind: "sentence", Index: i}
	}
	index := e.indexer.Build(ctx, candidates)

	result := &Result{
		Supplier: req.Supplier,
		Industry: req.Industry,
		Template: bundle.Name,
		Version:  bundle.Version,
	}
	critical := false

	for _, row := range bundle.Rows {
		evidence := e.matchEvidence(ctx, index, row)
		score, rationale, rowCritical := ScoreRow(row, loweredContext, evidence)
		weight := template.RowWeight(row, industry)

		result.Total += score * weight
		result.MaxScore += 5 * weight
		critical = critical || rowCritical

		rowResult := RowResult{
			Area:      row.Area,
			Item:      row.Item,
			Criterion: row.Criterion,
			Score:     score,
			Weight:    round3(weight),
			Rationale: rationale,
		}
		if evidence != nil {
			rowResult.Evidence = evidence.Sentence
			rowResult.EvidenceReason = evidence.Reason
		}
		result.Rows = append(result.Rows, rowResult)

		label := fmt.Sprintf("%s-%s (%.1f)", row.Area, row.Item, score)
		if score <= 2.5 {
			result.Risks = append(result.Risks, label)
		}
		if score >= 4.0 {
			result.Strengths = append(result.Strengths, label)
		}
	}

	result.PositiveSignals, result.NegativeSignals = ScanGlobalSignals(ctx, bundle, loweredContext, e.extractor)
	globalDelta := 0.0
	for _, hit := range result.PositiveSignals {
		globalDelta += hit.Impact
	}
	for _, hit := range result.NegativeSignals {
		globalDelta -= hit.Impact
	}
	result.Total += globalDelta
	if result.Total < 0 {
		result.Total = 0
	}
	if result.Total > result.MaxScore {
		result.Total = result.MaxScore
	}

	result.Grade = Grade(bundle, result.Total, result.MaxScore, critical)

	e.logger.Debug("supplier evaluation complete",
		logging.String("supplier", req.Supplier),
		logging.String("template", bundle.Name),
		logging.Float64("total", result.Total),
		logging.String("grade", result.Grade.Grade))
	return result, nil
}

// matchEvidence retrieves the top candidates for a row and validates them in
// rank order. The first valid candidate wins; with none valid, the last
// retrieved candidate is kept unvalidated so the report still shows what was
// considered.
func (e *Engine) matchEvidence(ctx context.Context, index match.Index, row template.EvaluationRow) *EvidenceMatch {
	query := buildQuery(row)
	hits := index.Search(ctx, query, e.topK)
	var evidence *EvidenceMatch
	for _, hit := range hits {
		valid, reason := e.validator.IsValid(ctx, row, hit.Candidate.Text)
		evidence = &EvidenceMatch{
			Sentence: hit.Candidate.Text,
			Score:    hit.Score,
			Valid:    valid,
			Reason:   reason,
		}
		if valid {
			break
		}
	}
	return evidence
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
