// Package format renders catalog numbers for display: context windows,
// per-million prices and request cost estimates.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const perMillion = 1_000_000

// ContextLength abbreviates a context window: "128k", "1M", "1.5M". Unknown
// or non-positive lengths render as "?".
func ContextLength(n int) string {
	switch {
	case n <= 0:
		return "?"
	case n >= perMillion:
		if n%perMillion == 0 {
			return fmt.Sprintf("%dM", n/perMillion)
		}
		return fmt.Sprintf("%.1fM", roundHalfUp(float64(n)/perMillion, 1))
	default:
		return fmt.Sprintf("%dk", int(math.Round(float64(n)/1000)))
	}
}

// Price renders a per-token price string as a per-million price: "free",
// "<$0.01/M" or "$2.50/M". Unparsable and negative prices render as "?".
func Price(price string) string {
	if price == "" || price == "0" {
		return "free"
	}

	v, ok := parse(price)
	if !ok || v < 0 {
		return "?"
	}
	if v == 0 {
		return "free"
	}

	perM := v * perMillion
	if perM < 0.01 {
		return "<$0.01/M"
	}

	return fmt.Sprintf("$%.2f/M", roundHalfUp(perM, 2))
}

// CostPerMillion converts a per-token price string to USD per million
// tokens. Empty, zero, negative and unparsable prices report false.
func CostPerMillion(price string) (float64, bool) {
	v, ok := parse(price)
	if !ok || v <= 0 {
		return 0, false
	}
	return v * perMillion, true
}

// EstimateCost prices a request from per-million rates. A nil rate counts as
// zero; when both rates are nil there is no estimate and ok is false.
func EstimateCost(inputTokens, outputTokens int, inputRate, outputRate *float64) (string, bool) {
	if inputRate == nil && outputRate == nil {
		return "", false
	}

	total := float64(inputTokens)/perMillion*rate(inputRate) +
		float64(outputTokens)/perMillion*rate(outputRate)
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return "", false
	}

	if total < 0.0001 {
		return "<$0.0001", true
	}

	return fmt.Sprintf("$%.4f", roundHalfUp(total, 4)), true
}

// roundHalfUp rounds v to places decimals with halves away from zero. fmt
// alone rounds exact halves to even ("1.25" would print as "1.2").
func roundHalfUp(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

func rate(r *float64) float64 {
	if r == nil {
		return 0
	}
	return *r
}

func parse(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
