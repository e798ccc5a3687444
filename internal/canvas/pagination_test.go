package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinkHeader(t *testing.T) {
	header := `<https://canvas.test/api/v1/courses?page=1&per_page=50>; rel="current",` +
		`<https://canvas.test/api/v1/courses?page=2&per_page=50>; rel="next",` +
		`<https://canvas.test/api/v1/courses?page=1&per_page=50>; rel="first",` +
		`<https://canvas.test/api/v1/courses?page=7&per_page=50>; rel="last"`

	links := ParseLinkHeader(header)

	assert.Equal(t, "https://canvas.test/api/v1/courses?page=1&per_page=50", links.Current)
	assert.Equal(t, "https://canvas.test/api/v1/courses?page=2&per_page=50", links.Next)
	assert.Equal(t, "https://canvas.test/api/v1/courses?page=1&per_page=50", links.First)
	assert.Equal(t, "https://canvas.test/api/v1/courses?page=7&per_page=50", links.Last)
	assert.Empty(t, links.Prev)
}

func TestParseLinkHeaderEmpty(t *testing.T) {
	assert.Equal(t, PageLinks{}, ParseLinkHeader(""))
}

func TestParseLinkHeaderLastPage(t *testing.T) {
	header := `<https://canvas.test/api/v1/courses?page=7>; rel="current",` +
		`<https://canvas.test/api/v1/courses?page=6>; rel="prev",` +
		`<https://canvas.test/api/v1/courses?page=1>; rel="first"`

	links := ParseLinkHeader(header)

	assert.Empty(t, links.Next)
	assert.Equal(t, "https://canvas.test/api/v1/courses?page=6", links.Prev)
}

func TestParseLinkHeaderIgnoresUnknownRels(t *testing.T) {
	header := `<https://canvas.test/a>; rel="preferences",<https://canvas.test/b>; rel="next"`

	links := ParseLinkHeader(header)

	assert.Equal(t, "https://canvas.test/b", links.Next)
	assert.Equal(t, PageLinks{Next: "https://canvas.test/b"}, links)
}

func TestParseLinkHeaderMalformedEntries(t *testing.T) {
	header := `garbage-without-semicolon,<>; rel="next",<https://canvas.test/ok>; norel="next"`

	assert.Equal(t, PageLinks{}, ParseLinkHeader(header))
}
