package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGrades(t *testing.T) {
	courses := []Course{
		{
			ID:   1,
			Name: "Chemistry",
			Enrollments: []Enrollment{
				{Type: "teacher"},
				{Type: "student", ComputedCurrentScore: fp(91.2), ComputedCurrentGrade: "A-"},
				{Type: "student", ComputedCurrentScore: fp(50)}, // only the first student enrollment counts
			},
		},
		{
			ID:          2,
			Name:        "Observer-only course",
			Enrollments: []Enrollment{{Type: "observer"}},
		},
		{
			ID: 3, // no enrollments at all
		},
	}

	grades := ExtractGrades(courses)

	require.Len(t, grades, 1)
	assert.Equal(t, int64(1), grades[0].CourseID)
	assert.Equal(t, "Chemistry", grades[0].CourseName)
	require.NotNil(t, grades[0].CurrentScore)
	assert.Equal(t, 91.2, *grades[0].CurrentScore)
	assert.Equal(t, "A-", grades[0].CurrentGrade)
}

func TestFindAssignment(t *testing.T) {
	snap := Snapshot{
		Assignments: []CourseAssignments{
			{CourseName: "Math", Assignments: []Assignment{{ID: 1, Name: "Problem set"}}},
			{CourseName: "History", Assignments: []Assignment{{ID: 2, Name: "Essay"}}},
		},
	}

	course, a := snap.FindAssignment(2)
	require.NotNil(t, a)
	assert.Equal(t, "History", course)
	assert.Equal(t, "Essay", a.Name)

	_, missing := snap.FindAssignment(99)
	assert.Nil(t, missing)
}

func TestSupportedKinds(t *testing.T) {
	kinds := SupportedKinds([]string{"online_upload", "media_recording", "online_text_entry"})
	assert.Equal(t, []SubmissionKind{SubmitText, SubmitFile}, kinds)

	assert.Empty(t, SupportedKinds([]string{"on_paper", "media_recording"}))
	assert.Empty(t, SupportedKinds(nil))
}
