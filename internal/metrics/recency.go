package metrics

import "time"

// NeutralRecency is reported when an item's date is missing or unusable
const NeutralRecency = 55

const (
	day   = 24 * time.Hour
	month = 30 * day
)

// recencyBands maps an age ceiling in months to a score. Ages past the last
// band score recencyFloor.
var recencyBands = []struct {
	months int
	score  int
}{
	{1, 100},
	{3, 90},
	{6, 80},
	{12, 70},
	{24, 55},
	{36, 40},
	{60, 25},
}

const recencyFloor = 10

// Recency maps an item's age in months to a non-increasing piecewise score.
// Missing dates and dates more than a day in the future score
// NeutralRecency.
func Recency(in Input) int {
	age, ok := in.age()
	if !ok || age < -day {
		return NeutralRecency
	}
	if age < 0 {
		age = 0
	}

	months := float64(age) / float64(month)
	for _, b := range recencyBands {
		if months < float64(b.months) {
			return b.score
		}
	}
	return recencyFloor
}

// ageDecay is the recency factor folded into relevance: 1.0 for the first
// week, decaying to 0.2 past three years. Unknown ages count 0.5.
func ageDecay(in Input) float64 {
	age, ok := in.age()
	if !ok || age < -day {
		return 0.5
	}
	switch {
	case age <= 7*day:
		return 1.0
	case age <= 30*day:
		return 0.9
	case age <= 90*day:
		return 0.75
	case age <= 180*day:
		return 0.6
	case age <= 365*day:
		return 0.45
	case age <= 3*365*day:
		return 0.3
	default:
		return 0.2
	}
}
