package pricing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// CurrencyMarker prefixes every rendered price.
const CurrencyMarker = "$"

// Tier identifies a price bucket of the inventory.
type Tier string

const (
	Cheap     Tier = "$"
	Medium    Tier = "$$"
	Expensive Tier = "$$$"
)

// Tiers lists every tier in ascending price order.
var Tiers = []Tier{Cheap, Medium, Expensive}

// Range is an inclusive range of whole dollars.
type Range struct {
	Min int
	Max int
}

var dollarRanges = map[Tier]Range{
	Cheap:     {Min: 1, Max: 4},
	Medium:    {Min: 5, Max: 9},
	Expensive: {Min: 10, Max: 25},
}

// DollarRange returns the whole-dollar range prices of the tier are drawn from.
func DollarRange(t Tier) (Range, bool) {
	r, ok := dollarRanges[t]
	return r, ok
}

// Source is the randomness provider for price and item selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the math/rand/v2 global generator.
func DefaultSource() Source { return globalSource{} }

// Random synthesizes a "$D.CC" price for the tier.
func Random(t Tier, src Source) (string, error) {
	r, ok := dollarRanges[t]
	if !ok {
		return "", fmt.Errorf("unknown price tier %q", t)
	}

	dollars := r.Min + src.IntN(r.Max-r.Min+1)
	cents := src.IntN(100)

	return Format(dollars, cents), nil
}

// Format renders dollars and cents as "$D.CC".
func Format(dollars, cents int) string {
	return fmt.Sprintf("%s%d.%02d", CurrencyMarker, dollars, cents)
}

// Parse reads a rendered price, ignoring surrounding whitespace and currency markers.
func Parse(raw string) (float64, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), CurrencyMarker)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return value, nil
}

// FormatTotal renders a total rounded to cents without forced zero padding:
// 12.5 is "$12.5", 2 is "$2.0".
func FormatTotal(total float64) string {
	rounded := math.Round(total*100) / 100
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return CurrencyMarker + s
}
