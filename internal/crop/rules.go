package crop

// rule is one row of the fallback decision table.
type rule struct {
	name    string
	matches func(p FarmProfile) bool
	crops   []Recommendation
}

// fallbackRules is evaluated top to bottom; the first match wins. The last
// row always matches.
var fallbackRules = []rule{
	{
		name: "loamy-large",
		matches: func(p FarmProfile) bool {
			return p.SoilType == SoilLoamy && p.LandSize >= 5
		},
		crops: []Recommendation{
			{CropName: "Maize", SuitabilityScore: 0.85, ConfidenceLevel: ConfidenceHigh},
			{CropName: "Beans", SuitabilityScore: 0.80, ConfidenceLevel: ConfidenceHigh},
			{CropName: "Wheat", SuitabilityScore: 0.75, ConfidenceLevel: ConfidenceMedium},
		},
	},
	{
		name: "clay-or-irrigated",
		matches: func(p FarmProfile) bool {
			return p.SoilType == SoilClay || p.WaterAccess == WaterIrrigation
		},
		crops: []Recommendation{
			{CropName: "Rice", SuitabilityScore: 0.80, ConfidenceLevel: ConfidenceHigh},
			{CropName: "Sugarcane", SuitabilityScore: 0.70, ConfidenceLevel: ConfidenceMedium},
		},
	},
	{
		name: "organic-small",
		matches: func(p FarmProfile) bool {
			return p.FertilizerType == FertilizerOrganic && p.LandSize < 5
		},
		crops: []Recommendation{
			{CropName: "Tomatoes", SuitabilityScore: 0.85, ConfidenceLevel: ConfidenceHigh},
			{CropName: "Onions", SuitabilityScore: 0.80, ConfidenceLevel: ConfidenceHigh},
			{CropName: "Cabbage", SuitabilityScore: 0.75, ConfidenceLevel: ConfidenceMedium},
		},
	},
	{
		// Shadowed by clay-or-irrigated; kept so the table matches the published rule order.
		name: "sandy-irrigated",
		matches: func(p FarmProfile) bool {
			return p.SoilType == SoilSandy && p.WaterAccess == WaterIrrigation
		},
		crops: []Recommendation{
			{CropName: "Groundnuts", SuitabilityScore: 0.80, ConfidenceLevel: ConfidenceHigh},
			{CropName: "Sweet Potatoes", SuitabilityScore: 0.75, ConfidenceLevel: ConfidenceMedium},
		},
	},
	{
		name:    "default",
		matches: func(FarmProfile) bool { return true },
		crops: []Recommendation{
			{CropName: "Maize", SuitabilityScore: 0.70, ConfidenceLevel: ConfidenceMedium},
			{CropName: "Beans", SuitabilityScore: 0.65, ConfidenceLevel: ConfidenceMedium},
			{CropName: "Potatoes", SuitabilityScore: 0.60, ConfidenceLevel: ConfidenceMedium},
		},
	},
}

// maxRuleResults bounds every fallback list.
const maxRuleResults = 5

// RuleBasedRecommend returns the crops of the first matching rule, truncated to topN
// (and never more than five). A non-positive topN means DefaultTopN.
func RuleBasedRecommend(p FarmProfile, topN int) []Recommendation {
	topN = normalizeTopN(topN)
	if topN > maxRuleResults {
		topN = maxRuleResults
	}

	for _, r := range fallbackRules {
		if !r.matches(p) {
			continue
		}
		n := min(topN, len(r.crops))
		out := make([]Recommendation, n)
		copy(out, r.crops[:n])
		return out
	}
	return nil
}

// matchedRule names the rule that fires for p; used for logging.
func matchedRule(p FarmProfile) string {
	for _, r := range fallbackRules {
		if r.matches(p) {
			return r.name
		}
	}
	return ""
}
