package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-tui/slate/internal/domain"
)

func TestFetchAllFollowsNextLinks(t *testing.T) {
	const pages = 3
	var requests int

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++

		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Fatalf("missing bearer token on request %d: %q", requests, got)
		}

		page := requests
		if page < pages {
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses?page=%d>; rel="next"`, server.URL, page+1))
		}
		fmt.Fprintf(w, `[{"id":%d,"name":"Course %d"}]`, page, page)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-123", nil)
	courses, err := client.ListCourses(context.Background())

	require.NoError(t, err)
	assert.Equal(t, pages, requests)
	require.Len(t, courses, pages)
	// API order preserved across pages
	assert.Equal(t, int64(1), courses[0].ID)
	assert.Equal(t, int64(3), courses[2].ID)
}

func TestListCoursesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "active", q.Get("enrollment_state"))
		assert.Equal(t, "50", q.Get("per_page"))
		assert.ElementsMatch(t, []string{"total_students", "term", "enrollments"}, q["include[]"])
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", nil)
	_, err := client.ListCourses(context.Background())
	require.NoError(t, err)
}

func TestUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", nil)
	_, err := client.GetSelf(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", nil)
	_, err := client.ListCourses(context.Background())

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRateLimitedWithRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2.5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", nil)
	_, err := client.ListCourses(context.Background())

	var rateErr *domain.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 2.5, rateErr.RetryAfter)
}

func TestRateLimitedDefaultRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", nil)
	_, err := client.ListCourses(context.Background())

	var rateErr *domain.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 1.0, rateErr.RetryAfter)
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"errors":[{"message":"boom"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", nil)
	_, err := client.ListCourses(context.Background())

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Body, "boom")
}

func TestNetworkErrorWrapsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, "t", nil)
	_, err := client.GetSelf(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Error(t, errors.Unwrap(netErr))
}

func TestGetSelfDecodesProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/self", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "name": "Ada Lovelace"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", nil)
	user, err := client.GetSelf(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Ada Lovelace", user.Name)
}
