package crop

// FeatureLen is the fixed length of a FeatureVector.
const FeatureLen = 8

// derivedScale is applied to the raw slots to produce the second half of the vector.
const derivedScale = 0.1

// FeatureVector is the model input:
// [land, soil, fert, water, land*0.1, soil*0.1, fert*0.1, water*0.1].
type FeatureVector [FeatureLen]float64

// Encode maps a profile to its feature vector. Unknown categories resolve to index 0.
func Encode(p FarmProfile) FeatureVector {
	raw := [4]float64{
		p.LandSize,
		float64(categoryIndex(soilIndex, p.SoilType)),
		float64(categoryIndex(fertilizerIndex, p.FertilizerType)),
		float64(categoryIndex(waterIndex, p.WaterAccess)),
	}

	var v FeatureVector
	for i, x := range raw {
		v[i] = x
		v[i+len(raw)] = x * derivedScale
	}
	return v
}

func categoryIndex[T comparable](values []T, v T) int {
	if i := indexOf(values, v); i >= 0 {
		return i
	}
	return 0
}
