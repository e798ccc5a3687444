package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-tui/slate/internal/domain"
)

func tp(t time.Time) *time.Time { return &t }

func modelWithAssignments() Model {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m := NewModel(nil, nil, nil, nil)
	m.snapshot.Assignments = []domain.CourseAssignments{
		{
			CourseName: "History",
			Assignments: []domain.Assignment{
				{ID: 1, Name: "Essay on Rome", DueAt: tp(now.Add(72 * time.Hour))},
				{ID: 2, Name: "Reading quiz"},
			},
		},
		{
			CourseName: "Algorithms",
			Assignments: []domain.Assignment{
				{ID: 3, Name: "Problem set 4", DueAt: tp(now.Add(24 * time.Hour))},
			},
		},
	}
	return m
}

func rowIDs(rows []assignmentRow) []int64 {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.Assignment.ID
	}
	return ids
}

func TestRebuildRowsDueAscending(t *testing.T) {
	m := modelWithAssignments()
	m.sortMode = SortDueAsc
	m.rebuildRows()

	// Earliest due first, no due date last.
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(m.rows))
	assert.Equal(t, 3, m.assignmentList.Len)
}

func TestRebuildRowsDueDescending(t *testing.T) {
	m := modelWithAssignments()
	m.sortMode = SortDueDesc
	m.rebuildRows()

	assert.Equal(t, []int64{1, 3, 2}, rowIDs(m.rows))
}

func TestRebuildRowsByCourse(t *testing.T) {
	m := modelWithAssignments()
	m.sortMode = SortCourse
	m.rebuildRows()

	assert.Equal(t, "Algorithms", m.rows[0].CourseName)
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(m.rows))
}

func TestRebuildRowsCourseFilter(t *testing.T) {
	m := modelWithAssignments()
	m.courseFilter["Algorithms"] = true
	m.rebuildRows()

	require.Len(t, m.rows, 1)
	assert.Equal(t, int64(3), m.rows[0].Assignment.ID)
}

func TestRebuildRowsFuzzyQuery(t *testing.T) {
	m := modelWithAssignments()
	m.searchInput.SetValue("rome")
	m.rebuildRows()

	require.Len(t, m.rows, 1)
	assert.Equal(t, "Essay on Rome", m.rows[0].Assignment.Name)
}

func TestRebuildRowsClampsCursor(t *testing.T) {
	m := modelWithAssignments()
	m.rebuildRows()
	m.assignmentList.End()
	assert.Equal(t, 2, m.assignmentList.Selected)

	m.searchInput.SetValue("rome")
	m.rebuildRows()
	assert.Equal(t, 0, m.assignmentList.Selected)
}

func TestStatusRankOrdering(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := tp(now.Add(-24 * time.Hour))
	future := tp(now.Add(24 * time.Hour))

	missing := domain.Assignment{DueAt: past, Submission: &domain.Submission{Missing: true}}
	pastDue := domain.Assignment{DueAt: past}
	open := domain.Assignment{DueAt: future}
	submitted := domain.Assignment{Submission: &domain.Submission{WorkflowState: domain.WorkflowSubmitted}}
	graded := domain.Assignment{Submission: &domain.Submission{WorkflowState: domain.WorkflowGraded}}

	assert.Less(t, statusRank(missing, now), statusRank(pastDue, now))
	assert.Less(t, statusRank(pastDue, now), statusRank(open, now))
	assert.Less(t, statusRank(open, now), statusRank(submitted, now))
	assert.Less(t, statusRank(submitted, now), statusRank(graded, now))
}

func TestRankedCourseChoices(t *testing.T) {
	m := modelWithAssignments()

	all := m.rankedCourseChoices("")
	assert.Equal(t, []string{"History", "Algorithms"}, all)

	matched := m.rankedCourseChoices("algo")
	require.Len(t, matched, 1)
	assert.Equal(t, "Algorithms", matched[0])

	assert.Empty(t, m.rankedCourseChoices("zzz"))
}
