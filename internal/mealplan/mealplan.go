// Package mealplan holds the fixed day, meal-slot, and week conventions of
// the planner. The enumerations are immutable static data loaded at compile
// time; nothing here touches the database.
package mealplan

import "time"

type Day struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Days runs Monday through Sunday, matching ISO weekday order.
var Days = []Day{
	{0, "Maandag"},
	{1, "Dinsdag"},
	{2, "Woensdag"},
	{3, "Donderdag"},
	{4, "Vrijdag"},
	{5, "Zaterdag"},
	{6, "Zondag"},
}

type Meal struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var Meals = []Meal{
	{"ontbijt", "Ontbijt"},
	{"lunch", "Lunch"},
	{"diner", "Diner"},
}

// DefaultPeopleCount is used when a menu cell or quick-add entry does not
// carry its own people count.
const DefaultPeopleCount = 4

func ValidDay(d int) bool {
	return d >= 0 && d <= 6
}

func ValidMeal(key string) bool {
	for _, m := range Meals {
		if m.Key == key {
			return true
		}
	}
	return false
}

// WeekOf returns the ISO year and week number for t.
func WeekOf(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// weeksInYear returns 52 or 53; December 28 always falls in the last ISO
// week of its year.
func weeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// PrevWeek steps one ISO week back, crossing the year boundary when needed.
func PrevWeek(year, week int) (int, int) {
	if week > 1 {
		return year, week - 1
	}
	return year - 1, weeksInYear(year - 1)
}

// NextWeek steps one ISO week forward, crossing the year boundary when needed.
func NextWeek(year, week int) (int, int) {
	if week < weeksInYear(year) {
		return year, week + 1
	}
	return year + 1, 1
}
