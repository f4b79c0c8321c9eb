package payout

import (
	"errors"

	"github.com/fadedpez/coinpurse/pkg/rng"
)

var ErrInvalidScatter = errors.New("amount cannot be scattered within bounds")

// Part is one share of a scattered amount
type Part struct {
	Value int
}

// Scatter splits amount into length random parts within [min,max] that sum to amount.
//
// The parts are seeded uniformly. A deficit is filled one coin at a time into random
// parts below max. A surplus first caps every part at length, not max, matching the
// historical event payouts. It then refills parts below min before parts below max,
// and drains any remaining surplus from parts above min. Both repair paths finish with
// length donor/recipient passes that reshape the split without changing the sum.
func Scatter(src rng.Source, amount, min, max, length int) ([]Part, error) {
	if length <= 0 || min < 0 || min > max || amount < min*length || amount > max*length {
		return nil, ErrInvalidScatter
	}

	values := make([]int, length)
	total := 0
	for i := range values {
		values[i] = src.IntRange(min, max)
		total += values[i]
	}

	switch {
	case total == amount:
	case total < amount:
		raise(src, values, amount-total, min, max)
		mix(src, values, min, max)
	default:
		total = 0
		for i, v := range values {
			if v > length {
				values[i] = length
			}
			total += values[i]
		}
		if total < amount {
			raise(src, values, amount-total, min, max)
		} else if total > amount {
			drain(src, values, total-amount, min)
		}
		mix(src, values, min, max)
	}

	parts := make([]Part, length)
	for i, v := range values {
		parts[i] = Part{Value: v}
	}
	return parts, nil
}

// Sum adds up the parts
func Sum(parts []Part) int {
	total := 0
	for _, p := range parts {
		total += p.Value
	}
	return total
}

func raise(src rng.Source, values []int, deficit, min, max int) {
	for ; deficit > 0; deficit-- {
		candidates := indexes(values, func(v int) bool { return v < min })
		if len(candidates) == 0 {
			candidates = indexes(values, func(v int) bool { return v < max })
		}
		if len(candidates) == 0 {
			return
		}
		values[pick(src, candidates)]++
	}
}

func drain(src rng.Source, values []int, surplus, min int) {
	for ; surplus > 0; surplus-- {
		candidates := indexes(values, func(v int) bool { return v > min })
		if len(candidates) == 0 {
			return
		}
		values[pick(src, candidates)]--
	}
}

// mix moves single coins between random parts. Passes with no donor or recipient are skipped.
func mix(src rng.Source, values []int, min, max int) {
	for pass := 0; pass < len(values); pass++ {
		donors := indexes(values, func(v int) bool { return v > min })
		if len(donors) == 0 {
			continue
		}
		donor := pick(src, donors)

		recipients := make([]int, 0, len(values))
		for i, v := range values {
			if i != donor && v < max {
				recipients = append(recipients, i)
			}
		}
		if len(recipients) == 0 {
			continue
		}
		recipient := pick(src, recipients)

		values[donor]--
		values[recipient]++
	}
}

func indexes(values []int, keep func(int) bool) []int {
	out := make([]int, 0, len(values))
	for i, v := range values {
		if keep(v) {
			out = append(out, i)
		}
	}
	return out
}

func pick(src rng.Source, candidates []int) int {
	return candidates[src.IntRange(0, len(candidates)-1)]
}
