package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-tui/slate/internal/domain"
)

func testSnapshot() *domain.Snapshot {
	due := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	return &domain.Snapshot{
		CachedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		User:     &domain.User{ID: 1, Name: "Ada"},
		Courses:  []domain.Course{{ID: 10, Name: "Algorithms"}},
		Assignments: []domain.CourseAssignments{
			{
				CourseName:  "Algorithms",
				Assignments: []domain.Assignment{{ID: 100, Name: "Problem set 3", DueAt: &due}},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir(), "https://school.instructure.com", "token-a")
	require.NoError(t, err)
	defer s.Close()

	snap := testSnapshot()
	require.NoError(t, s.Save(snap))

	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, snap, loaded)
}

func TestLoadWithoutSave(t *testing.T) {
	s, err := Open(t.TempDir(), "https://school.instructure.com", "token-a")
	require.NoError(t, err)
	defer s.Close()

	loaded, ok := s.Load()
	assert.False(t, ok)
	assert.Nil(t, loaded)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "https://school.instructure.com", "token-a")
	require.NoError(t, err)
	require.NoError(t, s.Save(testSnapshot()))
	require.NoError(t, s.Close())

	s2, err := Open(dir, "https://school.instructure.com", "token-a")
	require.NoError(t, err)
	defer s2.Close()

	loaded, ok := s2.Load()
	require.True(t, ok)
	assert.Equal(t, "Ada", loaded.User.Name)
}

func TestSnapshotsIsolatedPerUser(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir, "https://school.instructure.com", "token-a")
	require.NoError(t, err)
	require.NoError(t, a.Save(testSnapshot()))
	require.NoError(t, a.Close())

	b, err := Open(dir, "https://school.instructure.com", "token-b")
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.Load()
	assert.False(t, ok, "another user's token must not see the snapshot")
}

func TestServerURLNormalization(t *testing.T) {
	// Trailing slash and case differences map to the same cache directory.
	assert.Equal(t,
		hashKey("https://School.Instructure.com/"),
		hashKey("https://school.instructure.com"))
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := Open("", "https://school.instructure.com", "token-a")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Load()
	assert.False(t, ok)

	require.NoError(t, s.Save(testSnapshot()))
	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, "Ada", loaded.User.Name)

	s.Clear()
	_, ok = s.Load()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s, err := Open(t.TempDir(), "https://school.instructure.com", "token-a")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(testSnapshot()))
	s.Clear()

	_, ok := s.Load()
	assert.False(t, ok)
}
