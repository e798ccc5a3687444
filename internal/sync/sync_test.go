package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-tui/slate/internal/canvas"
	"github.com/slate-tui/slate/internal/store"
)

// waitResult polls a handle until the background pass delivers its result.
func waitResult(t *testing.T, h *Handle) Result {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := h.Poll(); ok {
			return r
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("pass did not complete in time")
	return Result{}
}

// fakeCanvas serves the minimal endpoint surface one pass touches.
func fakeCanvas(t *testing.T, mutate func(path string, w http.ResponseWriter) bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mutate != nil && mutate(r.URL.Path, w) {
			return
		}
		switch r.URL.Path {
		case "/api/v1/users/self":
			fmt.Fprint(w, `{"id":1,"name":"Ada"}`)
		case "/api/v1/courses":
			fmt.Fprint(w, `[{"id":10,"name":"Algorithms"},{"id":20,"name":"History"}]`)
		case "/api/v1/courses/10/assignments":
			fmt.Fprint(w, `[{"id":100,"course_id":10,"name":"Problem set"}]`)
		case "/api/v1/courses/20/assignments":
			fmt.Fprint(w, `[]`)
		case "/api/v1/calendar_events":
			if r.URL.Query().Get("type") == "assignment" {
				fmt.Fprint(w, `[{"id":2,"title":"Due tomorrow","start_at":"2026-03-11T12:00:00Z","type":"assignment"}]`)
			} else {
				fmt.Fprint(w, `[{"id":1,"title":"Lecture","start_at":"2026-03-10T09:00:00Z","type":"event"}]`)
			}
		case "/api/v1/announcements":
			fmt.Fprint(w, `[{"id":5,"title":"Welcome","is_announcement":true}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestOrchestrator(t *testing.T, serverURL string) (*Orchestrator, *store.SnapshotStore) {
	t.Helper()
	cache, err := store.Open(t.TempDir(), serverURL, "token")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	client := canvas.NewClient(serverURL, "token", nil)
	return New(client, cache, nil), cache
}

func TestPassCollectsEverything(t *testing.T) {
	server := fakeCanvas(t, nil)
	defer server.Close()

	orch, cache := newTestOrchestrator(t, server.URL)
	h := orch.Start(context.Background())
	require.NotNil(t, h)

	r := waitResult(t, h)

	require.NoError(t, r.Err)
	require.NotNil(t, r.Snapshot.User)
	assert.Equal(t, "Ada", r.Snapshot.User.Name)
	assert.Len(t, r.Snapshot.Courses, 2)

	// Courses with no assignments are dropped from the groups.
	require.Len(t, r.Snapshot.Assignments, 1)
	assert.Equal(t, "Algorithms", r.Snapshot.Assignments[0].CourseName)

	// Event and assignment queries are combined and sorted by start.
	require.Len(t, r.Snapshot.CalendarEvents, 2)
	assert.Equal(t, "Lecture", r.Snapshot.CalendarEvents[0].Title)
	assert.Equal(t, "Due tomorrow", r.Snapshot.CalendarEvents[1].Title)

	assert.Len(t, r.Snapshot.Announcements, 1)
	assert.False(t, r.Snapshot.CachedAt.IsZero())

	// The pass persisted the snapshot before reporting.
	saved, ok := cache.Load()
	require.True(t, ok)
	assert.Equal(t, "Ada", saved.User.Name)
}

func TestProfileFailureAbortsPass(t *testing.T) {
	server := fakeCanvas(t, func(path string, w http.ResponseWriter) bool {
		if path == "/api/v1/users/self" {
			w.WriteHeader(http.StatusInternalServerError)
			return true
		}
		return false
	})
	defer server.Close()

	orch, cache := newTestOrchestrator(t, server.URL)
	r := waitResult(t, orch.Start(context.Background()))

	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "fetching profile")
	assert.Nil(t, r.Snapshot.User)

	_, ok := cache.Load()
	assert.False(t, ok, "a fatally failed pass must not overwrite the cache")
}

func TestCourseListFailureAbortsPass(t *testing.T) {
	server := fakeCanvas(t, func(path string, w http.ResponseWriter) bool {
		if path == "/api/v1/courses" {
			w.WriteHeader(http.StatusForbidden)
			return true
		}
		return false
	})
	defer server.Close()

	orch, _ := newTestOrchestrator(t, server.URL)
	r := waitResult(t, orch.Start(context.Background()))

	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "fetching courses")
}

func TestAssignmentFailureSwallowed(t *testing.T) {
	server := fakeCanvas(t, func(path string, w http.ResponseWriter) bool {
		if path == "/api/v1/courses/10/assignments" {
			w.WriteHeader(http.StatusInternalServerError)
			return true
		}
		return false
	})
	defer server.Close()

	orch, _ := newTestOrchestrator(t, server.URL)
	r := waitResult(t, orch.Start(context.Background()))

	require.NoError(t, r.Err)
	assert.Len(t, r.Snapshot.Courses, 2)
	assert.Empty(t, r.Snapshot.Assignments, "failed course is skipped, pass continues")
	assert.Len(t, r.Snapshot.Announcements, 1)
}

func TestCalendarFailureSwallowed(t *testing.T) {
	server := fakeCanvas(t, func(path string, w http.ResponseWriter) bool {
		if path == "/api/v1/calendar_events" {
			w.WriteHeader(http.StatusInternalServerError)
			return true
		}
		return false
	})
	defer server.Close()

	orch, _ := newTestOrchestrator(t, server.URL)
	r := waitResult(t, orch.Start(context.Background()))

	require.NoError(t, r.Err)
	assert.Empty(t, r.Snapshot.CalendarEvents)
	assert.Len(t, r.Snapshot.Announcements, 1)
}

func TestSingleFlight(t *testing.T) {
	release := make(chan struct{})
	server := fakeCanvas(t, func(path string, w http.ResponseWriter) bool {
		if path == "/api/v1/users/self" {
			<-release
			json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "Ada"})
			return true
		}
		return false
	})
	defer server.Close()

	orch, _ := newTestOrchestrator(t, server.URL)

	h := orch.Start(context.Background())
	require.NotNil(t, h)
	assert.True(t, orch.Outstanding())

	// A pass is in flight: further starts are no-ops.
	assert.Nil(t, orch.Start(context.Background()))

	close(release)
	waitResult(t, h)

	// Collected: a new pass may start.
	assert.False(t, orch.Outstanding())
	h2 := orch.Start(context.Background())
	require.NotNil(t, h2)
	waitResult(t, h2)
}

func TestHandleConsumedAfterPoll(t *testing.T) {
	server := fakeCanvas(t, nil)
	defer server.Close()

	orch, _ := newTestOrchestrator(t, server.URL)
	h := orch.Start(context.Background())
	waitResult(t, h)

	_, ok := h.Poll()
	assert.False(t, ok, "a consumed handle yields nothing")
}

func TestNilHandlePoll(t *testing.T) {
	var h *Handle
	_, ok := h.Poll()
	assert.False(t, ok)
}
