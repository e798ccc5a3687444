package domain

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Calendar item kinds.
const (
	ItemKindEvent      = "event"
	ItemKindAssignment = "assignment"
)

// CalendarItem is a normalized timeline entry: either an explicit calendar
// event or an assignment due date. Items are rebuilt wholesale from their
// sources on every sync or cache load, never patched in place.
type CalendarItem struct {
	StartAt      *time.Time
	Title        string
	Kind         string
	CourseName   string // set only for synthesized assignment items
	Status       string // derived submission status, empty when none applies
	AssignmentID int64  // 0 when the item does not back an assignment
}

// MergeCalendar unions explicit calendar events with assignment due dates
// into one deduplicated, time-ordered timeline. An assignment already
// represented by an event's embedded reference is never synthesized a second
// time. Status strings depend on now, so the merge must be fully re-run
// whenever either source changes.
func MergeCalendar(events []CalendarEvent, assignments []CourseAssignments, now time.Time) []CalendarItem {
	covered := make(map[int64]bool)
	for _, e := range events {
		if e.Assignment != nil && e.Assignment.ID != 0 {
			covered[e.Assignment.ID] = true
		}
	}

	items := make([]CalendarItem, 0, len(events))
	for _, e := range events {
		kind := ItemKindEvent
		if e.Type == "assignment" {
			kind = ItemKindAssignment
		}
		title := e.Title
		if title == "" {
			title = "Untitled"
		}
		var assignmentID int64
		if e.Assignment != nil {
			assignmentID = e.Assignment.ID
		}
		items = append(items, CalendarItem{
			StartAt:      e.StartAt,
			Title:        title,
			Kind:         kind,
			AssignmentID: assignmentID,
		})
	}

	for _, group := range assignments {
		for _, a := range group.Assignments {
			if a.DueAt == nil || covered[a.ID] {
				continue
			}
			items = append(items, CalendarItem{
				StartAt:      a.DueAt,
				Title:        a.DisplayName(),
				Kind:         ItemKindAssignment,
				CourseName:   group.CourseName,
				Status:       SubmissionStatus(a, now),
				AssignmentID: a.ID,
			})
		}
	}

	// Nil start times sort to the tail, keeping their relative order.
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].StartAt, items[j].StartAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return items
}

// SubmissionStatus derives the human-readable status for an assignment's
// timeline entry. Empty means no status applies (not yet due, unsubmitted).
func SubmissionStatus(a Assignment, now time.Time) string {
	pastDue := a.DueAt != nil && a.DueAt.Before(now)

	sub := a.Submission
	if sub == nil {
		if pastDue {
			return "Past due"
		}
		return ""
	}

	switch sub.WorkflowState {
	case WorkflowGraded:
		if sub.Score == nil {
			return "Graded"
		}
		points := 0.0
		if a.PointsPossible != nil {
			points = *a.PointsPossible
		}
		return fmt.Sprintf("%.1f/%s", *sub.Score, strconv.FormatFloat(points, 'f', -1, 64))
	case WorkflowSubmitted:
		return "Submitted"
	}

	if pastDue {
		if sub.Missing {
			return "Missing!"
		}
		return "Past due"
	}
	return ""
}

// TodayIndex returns the index of the first item starting on or after now's
// date. Items with no start time never match. When everything is in the
// past, the last item is returned.
func TodayIndex(items []CalendarItem, now time.Time) int {
	for i, item := range items {
		if item.StartAt != nil && OnOrAfterDay(*item.StartAt, now) {
			return i
		}
	}
	if len(items) == 0 {
		return 0
	}
	return len(items) - 1
}

// OnOrAfterDay reports whether t falls on the same UTC calendar day as ref
// or later.
func OnOrAfterDay(t, ref time.Time) bool {
	ty, tm, td := t.UTC().Date()
	ry, rm, rd := ref.UTC().Date()
	if ty != ry {
		return ty > ry
	}
	if tm != rm {
		return tm > rm
	}
	return td >= rd
}
