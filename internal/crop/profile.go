package crop

import (
	"errors"
	"fmt"
)

// SoilType is the soil category of a farm.
type SoilType string

const (
	SoilLoamy  SoilType = "loamy"
	SoilClay   SoilType = "clay"
	SoilSandy  SoilType = "sandy"
	SoilSilt   SoilType = "silt"
	SoilPeat   SoilType = "peat"
	SoilChalky SoilType = "chalky"
)

// FertilizerType is the fertilizer the farmer applies.
type FertilizerType string

const (
	FertilizerOrganic FertilizerType = "organic"
	FertilizerUrea    FertilizerType = "urea"
	FertilizerDAP     FertilizerType = "dap"
	FertilizerNPK     FertilizerType = "npk"
	FertilizerCompost FertilizerType = "compost"
)

// WaterAccess describes how the farm is watered.
type WaterAccess string

const (
	WaterRainfed    WaterAccess = "rainfed"
	WaterIrrigation WaterAccess = "irrigation"
	WaterMixed      WaterAccess = "mixed"
)

// Category indexes. Position in each slice is the feature index; unknown values encode as 0.
var (
	soilIndex       = []SoilType{SoilLoamy, SoilClay, SoilSandy, SoilSilt, SoilPeat, SoilChalky}
	fertilizerIndex = []FertilizerType{FertilizerOrganic, FertilizerUrea, FertilizerDAP, FertilizerNPK, FertilizerCompost}
	waterIndex      = []WaterAccess{WaterRainfed, WaterIrrigation, WaterMixed}
)

// FarmProfile is the input to a recommendation request. LandSize is in acres.
type FarmProfile struct {
	LandSize       float64        `json:"land_size"`
	SoilType       SoilType       `json:"soil_type"`
	FertilizerType FertilizerType `json:"fertilizer_type"`
	WaterAccess    WaterAccess    `json:"water_access"`
	Location       string         `json:"location,omitempty"`
}

// ErrUnknownCategory is wrapped by Validate for categorical values outside the known sets.
var ErrUnknownCategory = errors.New("unknown category")

// Validate reports a non-positive land size or unknown categories.
// Recommend never calls it: unknown categories are accepted there and encode as index 0.
func (p FarmProfile) Validate() error {
	var errs []error
	if p.LandSize <= 0 {
		errs = append(errs, fmt.Errorf("land_size must be positive, got %v", p.LandSize))
	}
	if indexOf(soilIndex, p.SoilType) < 0 {
		errs = append(errs, fmt.Errorf("%w: soil_type %q", ErrUnknownCategory, p.SoilType))
	}
	if indexOf(fertilizerIndex, p.FertilizerType) < 0 {
		errs = append(errs, fmt.Errorf("%w: fertilizer_type %q", ErrUnknownCategory, p.FertilizerType))
	}
	if indexOf(waterIndex, p.WaterAccess) < 0 {
		errs = append(errs, fmt.Errorf("%w: water_access %q", ErrUnknownCategory, p.WaterAccess))
	}
	return errors.Join(errs...)
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return -1
}
