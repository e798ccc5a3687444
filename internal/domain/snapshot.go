package domain

import "time"

// CourseAssignments pairs a course's display name with its assignments in
// API order. A slice of these preserves course order, unlike a map.
type CourseAssignments struct {
	CourseName  string       `json:"course_name"`
	Assignments []Assignment `json:"assignments"`
}

// Snapshot is the full application state produced by one completed sync
// pass. It is written and read whole; there are no incremental updates.
type Snapshot struct {
	CachedAt       time.Time           `json:"cached_at"`
	User           *User               `json:"user"`
	Courses        []Course            `json:"courses"`
	Assignments    []CourseAssignments `json:"assignments"`
	CalendarEvents []CalendarEvent     `json:"calendar_events"`
	Announcements  []DiscussionTopic   `json:"announcements"`
}

// ContextCodes returns the calendar scoping codes for every course in the
// snapshot, in course order.
func ContextCodes(courses []Course) []string {
	codes := make([]string, len(courses))
	for i, c := range courses {
		codes[i] = c.ContextCode()
	}
	return codes
}

// FindAssignment resolves an assignment id to its course name and
// assignment within the snapshot's grouped lists.
func (s *Snapshot) FindAssignment(assignmentID int64) (string, *Assignment) {
	for i := range s.Assignments {
		group := &s.Assignments[i]
		for j := range group.Assignments {
			if group.Assignments[j].ID == assignmentID {
				return group.CourseName, &group.Assignments[j]
			}
		}
	}
	return "", nil
}
