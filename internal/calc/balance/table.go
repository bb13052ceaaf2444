package balance

import (
	"math"

	"github.com/rotisserie/eris"
)

// Rule is one bracket of a lookup table.
type Rule[K any] struct {
	Name  string
	Match func(K) bool
	Value float64
}

// Table is an ordered list of brackets. The first matching rule wins, so
// boundaries and tie-breaks are read top to bottom.
type Table[K any] struct {
	Name  string
	Rules []Rule[K]
}

func (t Table[K]) Lookup(k K) (float64, error) {
	for _, r := range t.Rules {
		if r.Match(k) {
			return r.Value, nil
		}
	}
	return 0, eris.Errorf("table %s: no bracket matches %v", t.Name, k)
}

// Always matches any key; used as the last rule of a table.
func Always[K any](K) bool { return true }

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// Round rounds half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
