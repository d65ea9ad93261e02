package sla

import (
	"fmt"
	"strings"
	"time"
)

// Severity grades a deadline badge for dashboard rendering.
type Severity string

const (
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
	SeverityWarning     Severity = "warning"
	SeverityInfo        Severity = "info"
	SeveritySecondary   Severity = "secondary"
)

// StatusCompleted is the terminal status that short-circuits deadline checks.
const StatusCompleted = "completed"

// Badge is the label/severity pair shown next to an item with a deadline.
// It carries no identity and is recomputed on every evaluation.
type Badge struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// Classify evaluates a deadline against the current wall clock.
func Classify(deadline *time.Time, status string, completion *time.Time) Badge {
	return ClassifyAt(deadline, status, completion, time.Now())
}

// ClassifyAt maps a deadline and status to a badge relative to now.
//
// The completion date is accepted for interface stability but does not
// influence the rule: a completed item is always reported as on time.
// Deadlines are compared at calendar-day granularity, so the time of day
// of both operands is discarded before subtraction.
func ClassifyAt(deadline *time.Time, status string, _ *time.Time, now time.Time) Badge {
	if deadline == nil {
		return Badge{Label: "-", Severity: SeveritySecondary}
	}
	if strings.EqualFold(strings.TrimSpace(status), StatusCompleted) {
		return Badge{Label: "Completed on time", Severity: SeveritySuccess}
	}

	diff := DaysBetween(now, *deadline)
	switch {
	case diff < 0:
		return Badge{Label: fmt.Sprintf("Overdue +%d", -diff), Severity: SeverityDestructive}
	case diff == 0:
		return Badge{Label: "Today", Severity: SeverityWarning}
	case diff <= 3:
		return Badge{Label: fmt.Sprintf("D-%d", diff), Severity: SeverityWarning}
	default:
		return Badge{Label: fmt.Sprintf("D-%d", diff), Severity: SeverityInfo}
	}
}

// DaysBetween returns the whole calendar days from now until deadline.
// Both operands are truncated to midnight, so the result is negative for
// past deadlines and zero when both fall on the same day.
func DaysBetween(now, deadline time.Time) int {
	return int(startOfDay(deadline).Sub(startOfDay(now)) / (24 * time.Hour))
}

// startOfDay pins the calendar date to UTC midnight so the subtraction in
// DaysBetween is always an exact multiple of 24 hours.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
