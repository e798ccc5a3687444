package canvas

import "strings"

// PageLinks holds the named pagination link relations from a Link header.
type PageLinks struct {
	Current string
	Next    string
	Prev    string
	First   string
	Last    string
}

// ParseLinkHeader parses the Link header returned by the Canvas API:
// arbitrarily many comma-separated `<url>; rel="name"` entries. Entries with
// missing URLs, missing rels, or unknown rel names are ignored.
func ParseLinkHeader(header string) PageLinks {
	var links PageLinks
	if header == "" {
		return links
	}

	for _, part := range strings.Split(header, ",") {
		segments := strings.SplitN(part, ";", 2)
		if len(segments) < 2 {
			continue
		}
		rawURL := strings.TrimSpace(segments[0])
		rawURL = strings.TrimPrefix(rawURL, "<")
		rawURL = strings.TrimSuffix(rawURL, ">")

		rel := strings.TrimSpace(segments[1])
		if !strings.HasPrefix(rel, "rel=") {
			continue
		}
		rel = strings.Trim(strings.TrimPrefix(rel, "rel="), `"`)

		if rawURL == "" {
			continue
		}
		switch rel {
		case "current":
			links.Current = rawURL
		case "next":
			links.Next = rawURL
		case "prev":
			links.Prev = rawURL
		case "first":
			links.First = rawURL
		case "last":
			links.Last = rawURL
		}
	}
	return links
}
