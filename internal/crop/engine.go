package crop

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/i474232898/farm-advisor/internal/logging"
	"github.com/i474232898/farm-advisor/internal/metrics"
)

// DefaultTopN is used when a request does not ask for a specific list size.
const DefaultTopN = 5

// Confidence is a coarse tier derived from a suitability score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFor maps a score to its tier: high above 0.7, medium above 0.4, low otherwise.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score > 0.7:
		return ConfidenceHigh
	case score > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Recommendation is one ranked crop.
type Recommendation struct {
	CropName         string     `json:"crop_name"`
	SuitabilityScore float64    `json:"suitability_score"`
	ConfidenceLevel  Confidence `json:"confidence_level"`
}

// Engine ranks crops for a farm profile. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	predictor Predictor
	log       zerolog.Logger
}

// NewEngine builds an engine around p. A nil p is treated as Unloaded.
func NewEngine(p Predictor) *Engine {
	if p == nil {
		p = Unloaded{}
	}
	e := &Engine{
		predictor: p,
		log:       logging.With().Str("component", "crop").Logger(),
	}
	if !p.Available() {
		ev := e.log.Warn()
		if u, ok := p.(Unloaded); ok && u.Reason != nil {
			ev = ev.Err(u.Reason)
		}
		ev.Msg("crop model not loaded; using rule-based recommendations")
	}
	return e
}

// ModelAvailable reports whether recommendations come from the predictor.
func (e *Engine) ModelAvailable() bool {
	return e.predictor.Available()
}

// Recommend returns at most topN crops sorted by descending score. It never
// fails: predictor problems fall back to RuleBasedRecommend.
func (e *Engine) Recommend(p FarmProfile, topN int) []Recommendation {
	topN = normalizeTopN(topN)

	if !e.predictor.Available() {
		return e.fallback(p, topN, nil)
	}

	recs, err := e.predict(Encode(p), topN)
	if err != nil {
		return e.fallback(p, topN, err)
	}

	metrics.RecommendationsTotal.WithLabelValues(metrics.PathModel).Inc()
	return recs
}

func (e *Engine) fallback(p FarmProfile, topN int, cause error) []Recommendation {
	ev := e.log.Debug()
	if cause != nil {
		ev = e.log.Warn().Err(cause)
	}
	ev.Str("rule", matchedRule(p)).Msg("serving rule-based recommendations")

	metrics.RecommendationsTotal.WithLabelValues(metrics.PathFallback).Inc()
	return RuleBasedRecommend(p, topN)
}

// predict queries the predictor and keeps the topN classes. Ties keep catalog order.
func (e *Engine) predict(v FeatureVector, topN int) (recs []Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("predictor panicked: %v", r)
		}
	}()

	probs, err := e.predictor.Predict(v)
	if err != nil {
		return nil, err
	}
	if len(probs) != NumClasses {
		return nil, fmt.Errorf("predictor returned %d probabilities, want %d", len(probs), NumClasses)
	}
	for i, pr := range probs {
		if math.IsNaN(pr) || pr < 0 || pr > 1 {
			return nil, fmt.Errorf("probability for %s out of range: %v", Catalog[i], pr)
		}
	}

	idx := make([]int, NumClasses)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return probs[idx[a]] > probs[idx[b]]
	})

	n := min(topN, len(idx))
	recs = make([]Recommendation, 0, n)
	for _, i := range idx[:n] {
		recs = append(recs, Recommendation{
			CropName:         Catalog[i],
			SuitabilityScore: probs[i],
			ConfidenceLevel:  ConfidenceFor(probs[i]),
		})
	}
	return recs, nil
}

func normalizeTopN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	return n
}
