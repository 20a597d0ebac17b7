package filter

import (
	"strings"
	"time"
)

// The comparators below form a total order: equal keys compare as 0 and a
// stable sort keeps their input order.

func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareTimes(a, b time.Time) int {
	return a.Compare(b)
}

func compareFloats(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

func compareInts(a, b int) int {
	return compareFloats(float64(a), float64(b))
}

// Missing values sort before present ones in ascending order.
func compareOptionalFloats(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareFloats(*a, *b)
}

func compareOptionalTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareTimes(*a, *b)
}

func directed(cmp int, order Order) int {
	if order == Desc {
		return -cmp
	}
	return cmp
}
