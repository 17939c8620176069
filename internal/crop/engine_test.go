package crop

import (
	"errors"
	"reflect"
	"testing"
)

type stubPredictor struct {
	probs []float64
	err   error
	panic bool
}

func (s stubPredictor) Available() bool { return true }

func (s stubPredictor) Predict(FeatureVector) ([]float64, error) {
	if s.panic {
		panic("model exploded")
	}
	return s.probs, s.err
}

// uniformProbs returns NumClasses probabilities with overrides applied.
func uniformProbs(base float64, overrides map[int]float64) []float64 {
	p := make([]float64, NumClasses)
	for i := range p {
		p[i] = base
	}
	for i, v := range overrides {
		p[i] = v
	}
	return p
}

var loamyLarge = FarmProfile{LandSize: 6, SoilType: SoilLoamy, FertilizerType: FertilizerUrea, WaterAccess: WaterRainfed}

func TestRecommendUsesPredictor(t *testing.T) {
	probs := uniformProbs(0.001, map[int]float64{
		1:  0.75, // Rice
		12: 0.5,  // Tomatoes
		28: 0.1,  // Sugarcane
	})
	e := NewEngine(stubPredictor{probs: probs})

	got := e.Recommend(loamyLarge, 3)
	want := []Recommendation{
		{CropName: "Rice", SuitabilityScore: 0.75, ConfidenceLevel: ConfidenceHigh},
		{CropName: "Tomatoes", SuitabilityScore: 0.5, ConfidenceLevel: ConfidenceMedium},
		{CropName: "Sugarcane", SuitabilityScore: 0.1, ConfidenceLevel: ConfidenceLow},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRecommendTiesKeepCatalogOrder(t *testing.T) {
	probs := uniformProbs(0, map[int]float64{5: 0.3, 2: 0.3, 9: 0.3})
	e := NewEngine(stubPredictor{probs: probs})

	got := e.Recommend(loamyLarge, 3)
	names := []string{got[0].CropName, got[1].CropName, got[2].CropName}
	want := []string{"Wheat", "Millet", "Potatoes"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("got %v, want %v", names, want)
	}
}

func TestRecommendDefaultTopN(t *testing.T) {
	e := NewEngine(stubPredictor{probs: uniformProbs(1.0/float64(NumClasses), nil)})
	if got := e.Recommend(loamyLarge, 0); len(got) != DefaultTopN {
		t.Fatalf("expected %d results, got %d", DefaultTopN, len(got))
	}
	if got := e.Recommend(loamyLarge, 100); len(got) != NumClasses {
		t.Fatalf("expected list capped at %d, got %d", NumClasses, len(got))
	}
}

func TestRecommendFallsBack(t *testing.T) {
	wantRules := RuleBasedRecommend(loamyLarge, DefaultTopN)

	tests := []struct {
		name      string
		predictor Predictor
	}{
		{name: "nil predictor", predictor: nil},
		{name: "unloaded", predictor: Unloaded{Reason: errors.New("no such file")}},
		{name: "predict error", predictor: stubPredictor{err: errors.New("boom")}},
		{name: "short distribution", predictor: stubPredictor{probs: []float64{0.5, 0.5}}},
		{name: "out of range probability", predictor: stubPredictor{probs: uniformProbs(0, map[int]float64{3: 1.2})}},
		{name: "panic", predictor: stubPredictor{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.predictor)
			got := e.Recommend(loamyLarge, DefaultTopN)
			if !reflect.DeepEqual(got, wantRules) {
				t.Fatalf("got %+v, want %+v", got, wantRules)
			}
		})
	}
}

var invariantProfiles = []FarmProfile{
	loamyLarge,
	{LandSize: 3, SoilType: SoilClay, FertilizerType: FertilizerNPK, WaterAccess: WaterRainfed},
	{LandSize: 1, SoilType: "unknown", FertilizerType: "", WaterAccess: "drip"},
}

func checkRanked(t *testing.T, name string, got []Recommendation, topN int) {
	t.Helper()
	if len(got) == 0 || len(got) > topN {
		t.Fatalf("%s: unexpected length %d for topN %d", name, len(got), topN)
	}
	for i, r := range got {
		if r.SuitabilityScore < 0 || r.SuitabilityScore > 1 {
			t.Fatalf("%s: score out of range: %+v", name, r)
		}
		if i > 0 && got[i-1].SuitabilityScore < r.SuitabilityScore {
			t.Fatalf("%s: list not sorted: %+v", name, got)
		}
	}
}

func TestRecommendModelInvariants(t *testing.T) {
	e := NewEngine(stubPredictor{probs: uniformProbs(0.01, map[int]float64{0: 0.4, 7: 0.2})})

	for _, p := range invariantProfiles {
		for _, topN := range []int{1, 2, 5} {
			got := e.Recommend(p, topN)
			checkRanked(t, "model", got, topN)
			for _, r := range got {
				if r.ConfidenceLevel != ConfidenceFor(r.SuitabilityScore) {
					t.Fatalf("model: confidence mismatch: %+v", r)
				}
			}
		}
	}
}

func ruleNamed(t *testing.T, name string) rule {
	t.Helper()
	for _, r := range fallbackRules {
		if r.name == name {
			return r
		}
	}
	t.Fatalf("no rule named %q", name)
	return rule{}
}

// The fallback table carries fixed confidence labels that do not always
// follow ConfidenceFor (Wheat is 0.75 but medium), so fallback output is
// compared with the table itself.
func TestRecommendFallbackInvariants(t *testing.T) {
	e := NewEngine(Unloaded{})

	for _, p := range invariantProfiles {
		matched := ruleNamed(t, matchedRule(p))
		for _, topN := range []int{1, 2, 5} {
			got := e.Recommend(p, topN)
			checkRanked(t, "fallback", got, topN)
			want := matched.crops[:min(topN, len(matched.crops))]
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("fallback: got %+v, want %+v from rule %s", got, want, matched.name)
			}
		}
	}

	wheat := RuleBasedRecommend(loamyLarge, 3)[2]
	if wheat.CropName != "Wheat" || wheat.SuitabilityScore != 0.75 || wheat.ConfidenceLevel != ConfidenceMedium {
		t.Fatalf("expected fixed Wheat entry 0.75/medium, got %+v", wheat)
	}
}

func TestRecommendIdempotent(t *testing.T) {
	e := NewEngine(stubPredictor{probs: uniformProbs(0.02, map[int]float64{4: 0.3})})
	a := e.Recommend(loamyLarge, 5)
	b := e.Recommend(loamyLarge, 5)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Confidence
	}{
		{1, ConfidenceHigh},
		{0.71, ConfidenceHigh},
		{0.7, ConfidenceMedium},
		{0.41, ConfidenceMedium},
		{0.4, ConfidenceLow},
		{0, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := ConfidenceFor(tt.score); got != tt.want {
			t.Errorf("ConfidenceFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
