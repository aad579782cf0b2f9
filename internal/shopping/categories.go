package shopping

// CategoryOrder is the fixed display order of ingredient categories,
// roughly following the walking route through a Dutch supermarket.
var CategoryOrder = []string{
	"AGF",
	"Vlees",
	"Vis",
	"Zuivel",
	"Bakkerij",
	"Houdbaar",
	"Diepvries",
	"Dranken",
	"Overig",
}

var categoryRank = func() map[string]int {
	m := make(map[string]int, len(CategoryOrder))
	for i, c := range CategoryOrder {
		m[c] = i
	}
	return m
}()

// CategoryRank returns the display position of a category. Categories not in
// CategoryOrder all share the rank just past the known ones.
func CategoryRank(category string) int {
	if r, ok := categoryRank[category]; ok {
		return r
	}
	return len(CategoryOrder)
}
