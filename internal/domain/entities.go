package domain

import (
	"strconv"
	"time"
)

// Course is an enrollment-scoped course as returned by the Canvas API.
// Courses are immutable per fetch and replaced wholesale on every sync.
type Course struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	CourseCode    string       `json:"course_code"`
	WorkflowState string       `json:"workflow_state"`
	StartAt       *time.Time   `json:"start_at"`
	EndAt         *time.Time   `json:"end_at"`
	Enrollments   []Enrollment `json:"enrollments"`
	TotalStudents int          `json:"total_students"`
	Term          *Term        `json:"term"`
}

// DisplayName returns the course name with a fallback for unnamed courses.
func (c Course) DisplayName() string {
	if c.Name == "" {
		return "Unnamed"
	}
	return c.Name
}

// ContextCode returns the calendar/announcement scoping code for the course.
func (c Course) ContextCode() string {
	return "course_" + strconv.FormatInt(c.ID, 10)
}

// Enrollment carries the per-role grade summary embedded in a course.
type Enrollment struct {
	Type                 string   `json:"type"`
	Role                 string   `json:"role"`
	ComputedCurrentScore *float64 `json:"computed_current_score"`
	ComputedCurrentGrade string   `json:"computed_current_grade"`
	ComputedFinalScore   *float64 `json:"computed_final_score"`
	ComputedFinalGrade   string   `json:"computed_final_grade"`
}

// Term is the enrollment term embedded in a course.
type Term struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
}

// Assignment is a gradeable course assignment, optionally carrying the
// caller's own latest submission when fetched with include[]=submission.
type Assignment struct {
	ID              int64       `json:"id"`
	CourseID        int64       `json:"course_id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	DueAt           *time.Time  `json:"due_at"`
	UnlockAt        *time.Time  `json:"unlock_at"`
	LockAt          *time.Time  `json:"lock_at"`
	PointsPossible  *float64    `json:"points_possible"`
	SubmissionTypes []string    `json:"submission_types"`
	HTMLURL         string      `json:"html_url"`
	Published       bool        `json:"published"`
	Submission      *Submission `json:"submission"`
}

// DisplayName returns the assignment name with a fallback.
func (a Assignment) DisplayName() string {
	if a.Name == "" {
		return "Unnamed"
	}
	return a.Name
}

// Submission workflow states reported by Canvas.
const (
	WorkflowUnsubmitted = "unsubmitted"
	WorkflowSubmitted   = "submitted"
	WorkflowGraded      = "graded"
)

// Submission is the remote system's record of one submission attempt.
// Read-only to this client except when newly created by a submit call.
type Submission struct {
	ID            int64      `json:"id"`
	AssignmentID  int64      `json:"assignment_id"`
	UserID        int64      `json:"user_id"`
	Score         *float64   `json:"score"`
	Grade         string     `json:"grade"`
	SubmittedAt   *time.Time `json:"submitted_at"`
	GradedAt      *time.Time `json:"graded_at"`
	WorkflowState string     `json:"workflow_state"`
	Late          bool       `json:"late"`
	Missing       bool       `json:"missing"`
	Attempt       int        `json:"attempt"`
}

// CalendarEvent is an explicit calendar entry, which may itself reference an
// assignment when fetched with type=assignment.
type CalendarEvent struct {
	ID           int64                  `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	StartAt      *time.Time             `json:"start_at"`
	EndAt        *time.Time             `json:"end_at"`
	ContextCode  string                 `json:"context_code"`
	AllDay       bool                   `json:"all_day"`
	LocationName string                 `json:"location_name"`
	Type         string                 `json:"type"`
	HTMLURL      string                 `json:"html_url"`
	Assignment   *AssignmentEventDetail `json:"assignment"`
}

// AssignmentEventDetail is the assignment reference embedded in a calendar
// event of type "assignment".
type AssignmentEventDetail struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	DueAt          *time.Time `json:"due_at"`
	PointsPossible *float64   `json:"points_possible"`
}

// DiscussionTopic is an announcement or discussion thread.
type DiscussionTopic struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	PostedAt       *time.Time `json:"posted_at"`
	UserName       string     `json:"user_name"`
	SubentryCount  int        `json:"discussion_subentry_count"`
	ReadState      string     `json:"read_state"`
	UnreadCount    int        `json:"unread_count"`
	HTMLURL        string     `json:"html_url"`
	IsAnnouncement bool       `json:"is_announcement"`
	ContextCode    string     `json:"context_code"`
}

// User is the authenticated user's profile.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	LoginID   string `json:"login_id"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName returns the user's name with a fallback.
func (u User) DisplayName() string {
	if u.Name == "" {
		return "Student"
	}
	return u.Name
}

// UploadSlot is the pre-authorized upload destination returned when
// requesting a file submission slot. UploadParams must be forwarded to the
// storage endpoint verbatim; FileParam names the multipart field the raw
// bytes go under.
type UploadSlot struct {
	UploadURL    string            `json:"upload_url"`
	UploadParams map[string]string `json:"upload_params"`
	FileParam    string            `json:"file_param"`
}

// UploadedFile is the file object confirmed by the API after an upload.
type UploadedFile struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content-type"`
}

// SubmissionKind is the closed set of submission types this client can
// perform.
type SubmissionKind int

const (
	SubmitText SubmissionKind = iota
	SubmitURL
	SubmitFile
)

// CanvasType returns the submission_types value for the kind.
func (k SubmissionKind) CanvasType() string {
	switch k {
	case SubmitText:
		return "online_text_entry"
	case SubmitURL:
		return "online_url"
	case SubmitFile:
		return "online_upload"
	}
	return ""
}

// Label returns the user-facing name for the kind.
func (k SubmissionKind) Label() string {
	switch k {
	case SubmitText:
		return "Text Entry"
	case SubmitURL:
		return "Website URL"
	case SubmitFile:
		return "File Upload"
	}
	return "Unknown"
}

// SupportedKinds intersects an assignment's declared submission types with
// the kinds this client understands, in picker order.
func SupportedKinds(submissionTypes []string) []SubmissionKind {
	declared := make(map[string]bool, len(submissionTypes))
	for _, t := range submissionTypes {
		declared[t] = true
	}
	var kinds []SubmissionKind
	for _, k := range []SubmissionKind{SubmitText, SubmitURL, SubmitFile} {
		if declared[k.CanvasType()] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// SubmissionRequest is one submission attempt: a fixed target plus the raw
// content for the chosen kind (text body, URL string, or file path).
type SubmissionRequest struct {
	CourseID     int64
	AssignmentID int64
	Kind         SubmissionKind
	Content      string
}
