package crop

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"
	"github.com/gonum/floats"
)

// Predictor scores a feature vector against the Catalog.
// Predict returns one probability per catalog entry, in catalog order.
type Predictor interface {
	Available() bool
	Predict(v FeatureVector) ([]float64, error)
}

// ErrPredictorUnavailable is returned by Unloaded.Predict.
var ErrPredictorUnavailable = errors.New("predictor not loaded")

// Unloaded is the predictor used when no model could be loaded.
type Unloaded struct {
	// Reason is logged once when the engine is built.
	Reason error
}

func (Unloaded) Available() bool { return false }

func (Unloaded) Predict(FeatureVector) ([]float64, error) {
	return nil, ErrPredictorUnavailable
}

// LinearModel is a multinomial logistic regression over the feature vector:
// p = softmax(W·x + b). It is read-only after LoadLinearModel returns.
type LinearModel struct {
	weights [][]float64
	bias    []float64
}

// modelArtifact is the on-disk JSON form of a LinearModel.
type modelArtifact struct {
	Classes []string    `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// LoadLinearModel reads a model artifact from path. The artifact's class list
// must match Catalog exactly.
func LoadLinearModel(path string) (*LinearModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	var art modelArtifact
	if err := json.NewDecoder(f).Decode(&art); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return NewLinearModel(art.Classes, art.Weights, art.Bias)
}

// NewLinearModel validates the dimensions and returns a model.
func NewLinearModel(classes []string, weights [][]float64, bias []float64) (*LinearModel, error) {
	if len(classes) != NumClasses {
		return nil, fmt.Errorf("model has %d classes, want %d", len(classes), NumClasses)
	}
	for i, name := range classes {
		if name != Catalog[i] {
			return nil, fmt.Errorf("model class %d is %q, want %q", i, name, Catalog[i])
		}
	}
	if len(weights) != NumClasses || len(bias) != NumClasses {
		return nil, fmt.Errorf("model has %d weight rows and %d biases, want %d", len(weights), len(bias), NumClasses)
	}
	for i, row := range weights {
		if len(row) != FeatureLen {
			return nil, fmt.Errorf("weight row %d has %d columns, want %d", i, len(row), FeatureLen)
		}
	}
	return &LinearModel{weights: weights, bias: bias}, nil
}

func (m *LinearModel) Available() bool { return m != nil }

func (m *LinearModel) Predict(v FeatureVector) ([]float64, error) {
	if m == nil {
		return nil, ErrPredictorUnavailable
	}

	x := v[:]
	logits := make([]float64, NumClasses)
	for i, row := range m.weights {
		logits[i] = floats.Dot(row, x) + m.bias[i]
	}

	lse := floats.LogSumExp(logits)
	if math.IsNaN(lse) || math.IsInf(lse, 0) {
		return nil, fmt.Errorf("softmax normaliser is not finite: %v", lse)
	}
	for i, l := range logits {
		logits[i] = math.Exp(l - lse)
	}
	return logits, nil
}
