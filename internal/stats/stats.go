// Package stats computes derived aggregates over already-fetched rows.
// Every function is pure: no database access, no side effects.
package stats

import (
	"math"
	"time"

	"github.com/campushq/school-records-api/internal/models"
)

// DefaultPrecision is the number of decimal places used for rates and
// percentages unless a caller asks for something else.
const DefaultPrecision = 1

// Round rounds v half away from zero to the requested number of decimal
// places.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}

// AttendanceRate returns the share of present records as a percentage
// rounded to one decimal. An empty slice yields 0.
func AttendanceRate(records []models.Attendance) float64 {
	if len(records) == 0 {
		return 0
	}
	present := 0
	for _, r := range records {
		if r.IsPresent {
			present++
		}
	}
	return Round(float64(present)/float64(len(records))*100, DefaultPrecision)
}

// MarkPercentage returns score/maxScore as a percentage rounded to the
// given precision. A zero max score yields 0.
func MarkPercentage(m models.Mark, precision int) float64 {
	if m.MaxScore == 0 {
		return 0
	}
	return Round(m.Score/m.MaxScore*100, precision)
}

// AverageMarkPercentage returns total score over total max score as a
// percentage rounded to the given precision. Empty input or a zero total
// max score yields 0.
func AverageMarkPercentage(marks []models.Mark, precision int) float64 {
	var score, max float64
	for _, m := range marks {
		score += m.Score
		max += m.MaxScore
	}
	if max == 0 {
		return 0
	}
	return Round(score/max*100, precision)
}

// GroupAttendanceByDate buckets attendance rows by calendar date.
func GroupAttendanceByDate(records []models.Attendance) map[string][]models.Attendance {
	grouped := make(map[string][]models.Attendance, len(records))
	for _, r := range records {
		key := r.Date.Format(time.DateOnly)
		grouped[key] = append(grouped[key], r)
	}
	return grouped
}

// GroupMarksByExamType buckets marks by their exam-type label.
func GroupMarksByExamType(marks []models.Mark) map[string][]models.Mark {
	grouped := make(map[string][]models.Mark, len(marks))
	for _, m := range marks {
		grouped[m.ExamType] = append(grouped[m.ExamType], m)
	}
	return grouped
}
