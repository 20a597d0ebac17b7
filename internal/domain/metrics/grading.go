// Package metrics derives dashboard summary metrics (GPA, completion rate,
// deadline counts) from assignment records and owns the letter-grade scale.
package metrics

import (
	"math"
	"strconv"
)

// LetterGrade maps a percentage to its letter tier. Thresholds are inclusive
// at the lower bound: 90 A, 80 B, 70 C, 60 D, otherwise F.
func LetterGrade(grade float64) string {
	switch {
	case grade >= 90:
		return "A"
	case grade >= 80:
		return "B"
	case grade >= 70:
		return "C"
	case grade >= 60:
		return "D"
	default:
		return "F"
	}
}

// RoundHalfUp rounds x to the nearest integer, halves towards +Inf.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Percent renders a whole percentage as "67%".
func Percent(p int) string {
	return strconv.Itoa(p) + "%"
}

// GradePercent renders a grade with a trailing "%", dropping a zero fraction:
// 85 -> "85%", 87.5 -> "87.5%".
func GradePercent(grade float64) string {
	return strconv.FormatFloat(grade, 'f', -1, 64) + "%"
}

// ToGPA converts a mean percentage to the 4.00 scale, formatted to two places.
func ToGPA(meanPercent float64) string {
	gpa := meanPercent / 100 * 4
	return strconv.FormatFloat(math.Round(gpa*100)/100, 'f', 2, 64)
}
