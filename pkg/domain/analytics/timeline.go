package analytics

import (
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// DefaultTimelineDays is the window of the activity report.
const DefaultTimelineDays = 30

// TimelinePoint counts task activity on one day.
type TimelinePoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Started   int    `json:"started"`
}

// BuildTimeline returns one point per day for the days ending today, oldest
// first. A task counts as completed on its actual end date and as started on
// its actual start date.
func BuildTimeline(tasks []planning.Task, today time.Time, days int) []TimelinePoint {
	if days <= 0 {
		days = DefaultTimelineDays
	}
	end := calendar.Midnight(today)

	completed := make(map[string]int)
	started := make(map[string]int)
	for _, t := range tasks {
		if d, ok := calendar.ParseDate(t.ActualEndDate); ok {
			completed[calendar.Format(d)]++
		}
		if d, ok := calendar.ParseDate(t.ActualStartDate); ok {
			started[calendar.Format(d)]++
		}
	}

	points := make([]TimelinePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := calendar.Format(end.AddDate(0, 0, -i))
		points = append(points, TimelinePoint{
			Date:      date,
			Completed: completed[date],
			Started:   started[date],
		})
	}
	return points
}
