package crop

// Catalog is the ordered list of classes the predictor scores. Index i of a
// probability vector refers to Catalog[i]; the order must never change.
var Catalog = [...]string{
	"Maize", "Rice", "Wheat", "Barley", "Sorghum", "Millet", "Beans",
	"Groundnuts", "Soybeans", "Potatoes", "Sweet Potatoes", "Cassava",
	"Tomatoes", "Onions", "Cabbage", "Carrots", "Spinach", "Lettuce",
	"Peppers", "Eggplant", "Cucumber", "Pumpkin", "Watermelon", "Banana",
	"Mango", "Avocado", "Coffee", "Tea", "Sugarcane", "Cotton",
}

// NumClasses is len(Catalog).
const NumClasses = len(Catalog)
