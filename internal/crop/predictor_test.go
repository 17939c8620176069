package crop

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

func writeArtifact(t *testing.T, art modelArtifact) string {
	t.Helper()
	data, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func validArtifact() modelArtifact {
	art := modelArtifact{
		Classes: append([]string(nil), Catalog[:]...),
		Weights: make([][]float64, NumClasses),
		Bias:    make([]float64, NumClasses),
	}
	for i := range art.Weights {
		art.Weights[i] = make([]float64, FeatureLen)
	}
	// Favour Rice on irrigated farms and Maize on large ones.
	art.Weights[1][3] = 2
	art.Weights[0][0] = 0.5
	return art
}

func TestLoadLinearModel(t *testing.T) {
	m, err := LoadLinearModel(writeArtifact(t, validArtifact()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !m.Available() {
		t.Fatal("loaded model should be available")
	}

	probs, err := m.Predict(Encode(FarmProfile{LandSize: 1, SoilType: SoilClay, WaterAccess: WaterIrrigation}))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(probs) != NumClasses {
		t.Fatalf("expected %d probabilities, got %d", NumClasses, len(probs))
	}

	var sum float64
	best := 0
	for i, p := range probs {
		sum += p
		if p > probs[best] {
			best = i
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities sum to %v", sum)
	}
	if Catalog[best] != "Rice" {
		t.Fatalf("expected Rice to rank first, got %s", Catalog[best])
	}
}

func TestLoadLinearModelErrors(t *testing.T) {
	if _, err := LoadLinearModel(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	reordered := validArtifact()
	reordered.Classes = append([]string{"Rice", "Maize"}, Catalog[2:]...)
	if _, err := LoadLinearModel(writeArtifact(t, reordered)); err == nil {
		t.Fatal("expected error for reordered classes")
	}

	narrow := validArtifact()
	narrow.Weights[4] = []float64{1, 2}
	if _, err := LoadLinearModel(writeArtifact(t, narrow)); err == nil {
		t.Fatal("expected error for short weight row")
	}
}

func TestUnloadedPredictor(t *testing.T) {
	var p Predictor = Unloaded{}
	if p.Available() {
		t.Fatal("Unloaded must not be available")
	}
	if _, err := p.Predict(FeatureVector{}); !errors.Is(err, ErrPredictorUnavailable) {
		t.Fatalf("expected ErrPredictorUnavailable, got %v", err)
	}
}

func TestEngineWithLoadedModel(t *testing.T) {
	m, err := LoadLinearModel(writeArtifact(t, validArtifact()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := NewEngine(m)
	if !e.ModelAvailable() {
		t.Fatal("engine should report model availability")
	}

	got := e.Recommend(FarmProfile{LandSize: 1, SoilType: SoilClay, WaterAccess: WaterIrrigation}, 3)
	if len(got) != 3 || got[0].CropName != "Rice" {
		t.Fatalf("unexpected ranking: %+v", got)
	}
}
