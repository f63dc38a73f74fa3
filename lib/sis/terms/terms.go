package terms

import (
	"context"
	"fmt"
	"net/url"
	"unicode"

	"sisquery/lib/sis"

	"github.com/tidwall/gjson"
)

// Semester anchor dates. A year+semester pair is resolved by asking the
// API which term covers the anchor date.
var semesterAnchors = map[string]string{
	"spring": "02-01",
	"summer": "07-01",
	"fall":   "10-01",
}

// Temporal positions accepted by the terms API.
const (
	Current  = "Current"
	Next     = "Next"
	Previous = "Previous"
)

type Client struct {
	sis   *sis.Client
	creds sis.Credentials
}

func NewClient(c *sis.Client, creds sis.Credentials) Client {
	return Client{sis: c, creds: creds}
}

// GetTermID resolves a temporal position (Current, Next, Previous) to a
// numeric term id. An empty id means there is no such term, e.g. a gap
// between semesters; callers must short-circuit rather than continue
// with the empty id.
func (c Client) GetTermID(ctx context.Context, position string) (string, error) {
	params := url.Values{}
	params.Set("temporal-position", position)

	items, err := c.sis.FetchItems(ctx, c.sis.URLs.Terms, params, c.creds, "terms")
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}
	return gjson.GetBytes(items[0], "id").String(), nil
}

// GetTermIDForYearSemester resolves a year and semester name to a
// numeric term id using the semester's anchor date. Unknown semester
// names fail before any request is made.
func (c Client) GetTermIDForYearSemester(ctx context.Context, year, semester string) (string, error) {
	anchor, ok := semesterAnchors[semester]
	if !ok {
		return "", &sis.ConfigError{Message: fmt.Sprintf("no such semester: %q", semester)}
	}

	params := url.Values{}
	params.Set("as-of-date", fmt.Sprintf("%s-%s", year, anchor))

	items, err := c.sis.FetchItems(ctx, c.sis.URLs.Terms, params, c.creds, "terms")
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}
	return gjson.GetBytes(items[0], "id").String(), nil
}

// GetTermName returns a term's friendly name, e.g. "2019 Fall".
func (c Client) GetTermName(ctx context.Context, termID string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s", c.sis.URLs.Terms, termID)

	items, err := c.sis.FetchItems(ctx, endpoint, url.Values{}, c.creds, "terms")
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}
	return gjson.GetBytes(items[0], "name").String(), nil
}

// Normalize converts a temporal position to a numeric term id and
// passes numeric ids through untouched.
func (c Client) Normalize(ctx context.Context, termID string) (string, error) {
	if isAlpha(termID) {
		return c.GetTermID(ctx, termID)
	}
	return termID, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
