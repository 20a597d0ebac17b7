package performance

import (
	"sort"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

// Window is a chart look-back period.
type Window string

const (
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
)

// ParseWindow parses a window name; empty input defaults to 30 days.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "":
		return Window30d, nil
	case Window7d, Window30d, Window90d:
		return Window(s), nil
	}
	return "", shared.ErrInvalidWindow
}

// Duration returns the look-back length of the window.
func (w Window) Duration() time.Duration {
	switch w {
	case Window7d:
		return 7 * 24 * time.Hour
	case Window90d:
		return 90 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Point is one chart category.
type Point struct {
	Label      string  `json:"label"`
	Date       string  `json:"date"`
	Grade      float64 `json:"grade"`
	StudyHours float64 `json:"studyHours"`
}

// Series is the grade/study-hours chart for a window.
type Series struct {
	Window Window  `json:"window"`
	Points []Point `json:"points"`
}

// BuildSeries keeps the samples dated on or after now-window, ordered by date.
func BuildSeries(samples []Sample, window Window, now time.Time) Series {
	cutoff := now.Add(-window.Duration())

	kept := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if !s.Date.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	points := make([]Point, 0, len(kept))
	for _, s := range kept {
		points = append(points, Point{
			Label:      timeutil.DayLabel(s.Date),
			Date:       timeutil.ISODate(s.Date),
			Grade:      s.Grade,
			StudyHours: s.StudyHours,
		})
	}
	return Series{Window: window, Points: points}
}
