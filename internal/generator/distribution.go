package generator

import "math/rand"

// Weighted is one category of a Distribution.
type Weighted struct {
	Key    string
	Weight float64
}

// Distribution is an ordered categorical distribution. Weights are relative
// and are expected to sum to roughly one.
type Distribution []Weighted

// Pick returns the first category, in order, whose cumulative weight exceeds
// u. u is a uniform draw in [0,1). If rounding leaves u at or past the final
// cumulative sum, the first category is returned.
func (d Distribution) Pick(u float64) string {
	if len(d) == 0 {
		return ""
	}
	cumulative := 0.0
	for _, w := range d {
		cumulative += w.Weight
		if u < cumulative {
			return w.Key
		}
	}
	return d[0].Key
}

// Sample draws one category with a single uniform number from r.
func (d Distribution) Sample(r *rand.Rand) string {
	return d.Pick(r.Float64())
}

// Keys lists the categories in order.
func (d Distribution) Keys() []string {
	keys := make([]string, len(d))
	for i, w := range d {
		keys[i] = w.Key
	}
	return keys
}
