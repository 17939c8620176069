package crop

import (
	"errors"
	"math"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		profile FarmProfile
		want    FeatureVector
	}{
		{
			name:    "known categories",
			profile: FarmProfile{LandSize: 6, SoilType: SoilSandy, FertilizerType: FertilizerNPK, WaterAccess: WaterMixed},
			want:    FeatureVector{6, 2, 3, 2, 0.6, 0.2, 0.3, 0.2},
		},
		{
			name:    "first entries encode as zero",
			profile: FarmProfile{LandSize: 1.5, SoilType: SoilLoamy, FertilizerType: FertilizerOrganic, WaterAccess: WaterRainfed},
			want:    FeatureVector{1.5, 0, 0, 0, 0.15, 0, 0, 0},
		},
		{
			name:    "unknown categories fall back to index zero",
			profile: FarmProfile{LandSize: 10, SoilType: "volcanic", FertilizerType: "Urea", WaterAccess: ""},
			want:    FeatureVector{10, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			name:    "last entries",
			profile: FarmProfile{LandSize: 2, SoilType: SoilChalky, FertilizerType: FertilizerCompost, WaterAccess: WaterIrrigation},
			want:    FeatureVector{2, 5, 4, 1, 0.2, 0.5, 0.4, 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.profile)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("slot %d: got %v, want %v (vector %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	p := FarmProfile{LandSize: 3.25, SoilType: SoilPeat, FertilizerType: FertilizerDAP, WaterAccess: WaterIrrigation}
	if Encode(p) != Encode(p) {
		t.Fatal("expected identical vectors for identical profiles")
	}
}

func TestFarmProfileValidate(t *testing.T) {
	valid := FarmProfile{LandSize: 2, SoilType: SoilClay, FertilizerType: FertilizerUrea, WaterAccess: WaterRainfed}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalid := FarmProfile{LandSize: 0, SoilType: "rocky", FertilizerType: FertilizerUrea, WaterAccess: "drip"}
	err := invalid.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
