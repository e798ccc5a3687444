package canvas

import (
	"context"
	"fmt"
	"net/url"

	"github.com/slate-tui/slate/internal/domain"
)

// GetSelf returns the authenticated user's profile.
func (c *Client) GetSelf(ctx context.Context) (domain.User, error) {
	return getJSON[domain.User](ctx, c, c.apiURL("/users/self"))
}

// ListCourses returns every actively enrolled course, with student
// enrollment and term details included.
func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	query := url.Values{}
	query.Set("enrollment_state", "active")
	query.Add("include[]", "total_students")
	query.Add("include[]", "term")
	query.Add("include[]", "enrollments")
	query.Set("per_page", defaultPerPage)
	return fetchAll[domain.Course](ctx, c, "/courses", query)
}

// GetCourse returns a single course.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (domain.Course, error) {
	return getJSON[domain.Course](ctx, c, c.apiURL(fmt.Sprintf("/courses/%d", courseID)))
}

// ListAssignments returns a course's assignments ordered by due date,
// optionally including the caller's own submission state.
func (c *Client) ListAssignments(ctx context.Context, courseID int64, includeSubmission bool) ([]domain.Assignment, error) {
	query := url.Values{}
	query.Set("per_page", defaultPerPage)
	query.Set("order_by", "due_at")
	if includeSubmission {
		query.Add("include[]", "submission")
	}
	return fetchAll[domain.Assignment](ctx, c, fmt.Sprintf("/courses/%d/assignments", courseID), query)
}

// GetAssignment returns a single assignment.
func (c *Client) GetAssignment(ctx context.Context, courseID, assignmentID int64) (domain.Assignment, error) {
	return getJSON[domain.Assignment](ctx, c, c.apiURL(fmt.Sprintf("/courses/%d/assignments/%d", courseID, assignmentID)))
}

// ListMySubmissions returns the caller's submissions across a course.
func (c *Client) ListMySubmissions(ctx context.Context, courseID int64) ([]domain.Submission, error) {
	query := url.Values{}
	query.Add("student_ids[]", "self")
	query.Set("per_page", defaultPerPage)
	return fetchAll[domain.Submission](ctx, c, fmt.Sprintf("/courses/%d/students/submissions", courseID), query)
}

// ListCalendarEvents returns explicit calendar events in [startDate, endDate]
// for the given context codes. Dates are YYYY-MM-DD.
func (c *Client) ListCalendarEvents(ctx context.Context, contextCodes []string, startDate, endDate string) ([]domain.CalendarEvent, error) {
	return c.listEvents(ctx, contextCodes, startDate, endDate, "event")
}

// ListUpcomingEvents returns assignment-backed calendar events in
// [startDate, endDate] for the given context codes.
func (c *Client) ListUpcomingEvents(ctx context.Context, contextCodes []string, startDate, endDate string) ([]domain.CalendarEvent, error) {
	return c.listEvents(ctx, contextCodes, startDate, endDate, "assignment")
}

func (c *Client) listEvents(ctx context.Context, contextCodes []string, startDate, endDate, eventType string) ([]domain.CalendarEvent, error) {
	query := url.Values{}
	query.Set("start_date", startDate)
	query.Set("end_date", endDate)
	query.Set("per_page", defaultPerPage)
	query.Set("type", eventType)
	for _, code := range contextCodes {
		query.Add("context_codes[]", code)
	}
	return fetchAll[domain.CalendarEvent](ctx, c, "/calendar_events", query)
}

// ListAnnouncements returns announcements across the given context codes.
func (c *Client) ListAnnouncements(ctx context.Context, contextCodes []string) ([]domain.DiscussionTopic, error) {
	query := url.Values{}
	query.Set("per_page", announcementPerPage)
	query.Set("latest_only", "false")
	for _, code := range contextCodes {
		query.Add("context_codes[]", code)
	}
	return fetchAll[domain.DiscussionTopic](ctx, c, "/announcements", query)
}

// ListDiscussions returns a course's discussion topics.
func (c *Client) ListDiscussions(ctx context.Context, courseID int64) ([]domain.DiscussionTopic, error) {
	query := url.Values{}
	query.Set("per_page", announcementPerPage)
	return fetchAll[domain.DiscussionTopic](ctx, c, fmt.Sprintf("/courses/%d/discussion_topics", courseID), query)
}
