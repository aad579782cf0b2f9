// Package shopping builds the consolidated shopping list for a week: every
// contributing recipe's ingredient lines are scaled by its portion multiplier,
// merged by (ingredient, unit, category), sorted, and formatted for display.
package shopping

import (
	"math"
	"sort"
	"strconv"

	"github.com/dverbeek/weekmenu/internal/model"
)

// DefaultServes is assumed when a recipe has no usable reference serving size.
const DefaultServes = 4

// Entry is one (recipe, people count) contribution to the list, whether it
// comes from a menu cell, a quick-add row, or a transient request parameter.
type Entry struct {
	RecipeID    int64
	PeopleCount int
}

// Source is the slice of a recipe the aggregator needs.
type Source struct {
	Serves int
	Lines  []model.RecipeLine
}

// Line is one consolidated row of the shopping list. Amount is the raw total
// for callers doing further math; Display is the formatted string.
type Line struct {
	IngredientName string  `json:"name"`
	Unit           string  `json:"unit"`
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	Display        string  `json:"display"`
}

// Multiplier returns peopleCount divided by the recipe's serving size.
// Zero or negative values fall back to the default of 4 so the division is
// always defined.
func Multiplier(peopleCount, serves int) float64 {
	if serves <= 0 {
		serves = DefaultServes
	}
	if peopleCount <= 0 {
		peopleCount = DefaultServes
	}
	return float64(peopleCount) / float64(serves)
}

type lineKey struct {
	name     string
	unit     string
	category string
}

// Build aggregates the given entries into a sorted shopping list. Entries
// whose recipe id is missing from recipes are skipped. Accumulation is a
// plain sum, so entry order never changes the totals.
func Build(entries []Entry, recipes map[int64]Source) []Line {
	totals := make(map[lineKey]float64)
	var order []lineKey

	for _, e := range entries {
		src, ok := recipes[e.RecipeID]
		if !ok {
			continue
		}
		mult := Multiplier(e.PeopleCount, src.Serves)
		for _, rl := range src.Lines {
			key := lineKey{name: rl.IngredientName, unit: rl.Unit, category: rl.Category}
			if _, seen := totals[key]; !seen {
				order = append(order, key)
			}
			totals[key] += rl.Amount * mult
		}
	}

	lines := make([]Line, 0, len(order))
	for _, key := range order {
		amount := totals[key]
		lines = append(lines, Line{
			IngredientName: key.name,
			Unit:           key.unit,
			Category:       key.category,
			Amount:         amount,
			Display:        FormatAmount(amount),
		})
	}

	sortLines(lines)
	return lines
}

// sortLines orders by the fixed category display order, then ingredient name.
// Categories outside the display order land at the end and keep their
// relative order among themselves.
func sortLines(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		ri, rj := CategoryRank(lines[i].Category), CategoryRank(lines[j].Category)
		if ri != rj {
			return ri < rj
		}
		if lines[i].Category != lines[j].Category {
			// Both unranked: preserve first-seen order.
			return false
		}
		return lines[i].IngredientName < lines[j].IngredientName
	})
}

// FormatAmount renders a total for display: rounded to two decimals, shown as
// a bare integer when whole, otherwise with trailing zeros trimmed.
func FormatAmount(v float64) string {
	r := math.Round(v*100) / 100
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
