// Package sync runs one full data-synchronization pass against the Canvas
// API as a background unit of work, publishing its result through a one-shot
// handle that the foreground polls without blocking.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/slate-tui/slate/internal/canvas"
	"github.com/slate-tui/slate/internal/domain"
	"github.com/slate-tui/slate/internal/store"
)

// calendarWindow is the rolling window of calendar data fetched per pass.
const calendarWindow = 30 * 24 * time.Hour

// Result is the message a completed pass hands to the foreground: the full
// snapshot plus an error. The error is fatal only when it came from the
// profile or course-list steps; a cache-write failure sets it too, but the
// snapshot is still complete and usable.
type Result struct {
	Snapshot domain.Snapshot
	Err      error
}

// Handle is the single-use receiver for one pass's result. Poll consumes
// it: after a result has been collected, further polls return nothing.
type Handle struct {
	ch       chan Result
	release  func()
	consumed bool
}

// Poll performs a non-blocking check. It returns ok=false while the pass is
// still running and after the result has already been collected.
func (h *Handle) Poll() (Result, bool) {
	if h == nil || h.consumed {
		return Result{}, false
	}
	select {
	case r := <-h.ch:
		h.consumed = true
		h.release()
		return r, true
	default:
		return Result{}, false
	}
}

// Orchestrator coordinates sync passes. At most one pass is outstanding at
// any time; a pass stays outstanding until its result is collected.
type Orchestrator struct {
	client *canvas.Client
	cache  *store.SnapshotStore
	logger *slog.Logger

	outstanding atomic.Bool
}

// New creates an orchestrator. cache may be nil when persistence is
// unavailable; the pass then skips the cache-write step.
func New(client *canvas.Client, cache *store.SnapshotStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{client: client, cache: cache, logger: logger}
}

// Start launches a background pass and returns its handle. While a pass is
// outstanding Start is a no-op and returns nil. There is no cancellation of
// an in-flight pass: the caller may lose interest, but the pass completes
// and its result is applied whenever next polled.
func (o *Orchestrator) Start(ctx context.Context) *Handle {
	if !o.outstanding.CompareAndSwap(false, true) {
		return nil
	}
	h := &Handle{
		ch:      make(chan Result, 1),
		release: func() { o.outstanding.Store(false) },
	}
	go func() {
		h.ch <- o.runPass(ctx)
	}()
	return h
}

// Outstanding reports whether a pass is running or has an uncollected
// result.
func (o *Orchestrator) Outstanding() bool {
	return o.outstanding.Load()
}

// runPass executes the pass steps strictly in order, since each depends on
// the previous one's output. Profile and course-list failures abort the
// pass; per-course assignments, calendar, and announcement failures are
// swallowed because partial data beats no data.
func (o *Orchestrator) runPass(ctx context.Context) Result {
	var result Result
	result.Snapshot.CachedAt = time.Now().UTC()

	user, err := o.client.GetSelf(ctx)
	if err != nil {
		result.Err = fmt.Errorf("fetching profile: %w", err)
		return result
	}
	result.Snapshot.User = &user

	courses, err := o.client.ListCourses(ctx)
	if err != nil {
		result.Err = fmt.Errorf("fetching courses: %w", err)
		return result
	}
	result.Snapshot.Courses = courses

	for _, course := range courses {
		assignments, err := o.client.ListAssignments(ctx, course.ID, true)
		if err != nil {
			o.logger.Warn("skipping course assignments", "course", course.ID, "error", err)
			continue
		}
		if len(assignments) == 0 {
			continue
		}
		result.Snapshot.Assignments = append(result.Snapshot.Assignments, domain.CourseAssignments{
			CourseName:  course.DisplayName(),
			Assignments: assignments,
		})
	}

	now := time.Now().UTC()
	start := now.Format("2006-01-02")
	end := now.Add(calendarWindow).Format("2006-01-02")
	codes := domain.ContextCodes(courses)

	events, err := o.client.ListCalendarEvents(ctx, codes, start, end)
	if err != nil {
		o.logger.Warn("skipping calendar events", "error", err)
	} else {
		deadlines, err := o.client.ListUpcomingEvents(ctx, codes, start, end)
		if err != nil {
			o.logger.Warn("skipping assignment events", "error", err)
		} else {
			events = append(events, deadlines...)
		}
		sort.SliceStable(events, func(i, j int) bool {
			a, b := events[i].StartAt, events[j].StartAt
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
		result.Snapshot.CalendarEvents = events
	}

	announcements, err := o.client.ListAnnouncements(ctx, codes)
	if err != nil {
		o.logger.Warn("skipping announcements", "error", err)
	} else {
		result.Snapshot.Announcements = announcements
	}

	result.Snapshot.CachedAt = time.Now().UTC()

	// Persisting from inside the pass keeps the foreground from ever
	// blocking on disk. A write failure is advisory only.
	if o.cache != nil {
		if err := o.cache.Save(&result.Snapshot); err != nil {
			o.logger.Error("cache write failed", "error", err)
			result.Err = fmt.Errorf("saving cache: %w", err)
		}
	}

	return result
}
