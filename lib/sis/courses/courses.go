// Package courses queries the catalog-level course API. Courses are
// independent of any term.
package courses

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"sisquery/lib/sis"
)

// Filter is the recognized course selection criteria. The API forbids
// unfiltered full-catalog scans, so a zero Filter short-circuits to an
// empty result without a request.
type Filter struct {
	StatusCode         string
	SubjectAreaCode    string
	CatalogNumber      string
	CoursePrefix       string
	CourseNumber       string
	AcademicCareerCode string
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

func (f Filter) params() url.Values {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("status-code", f.StatusCode)
	set("subject-area-code", f.SubjectAreaCode)
	set("catalog-number", f.CatalogNumber)
	set("course-prefix", f.CoursePrefix)
	set("course-number", f.CourseNumber)
	set("academic-career-code", f.AcademicCareerCode)
	return params
}

// Course is a catalog entry.
type Course struct {
	DisplayName string `json:"displayName"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Preparation struct {
		RequiredText string `json:"requiredText"`
	} `json:"preparation"`
	CreditRestriction struct {
		RestrictionText string `json:"restrictionText"`
	} `json:"creditRestriction"`
	FormatsOffered struct {
		Description string `json:"description"`
	} `json:"formatsOffered"`
	AcademicCareer sis.TypeCode `json:"academicCareer"`
	Credit         struct {
		Value struct {
			Fixed struct {
				Units json.Number `json:"units"`
			} `json:"fixed"`
		} `json:"value"`
	} `json:"credit"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// ActiveOn reports whether the course's effective date range covers the
// given day, bounds included. Only the calendar date of `day` matters.
// Courses without both dates are not considered active.
func (c Course) ActiveOn(day time.Time) bool {
	if c.FromDate == "" || c.ToDate == "" {
		return false
	}
	from, err := time.Parse(time.DateOnly, c.FromDate)
	if err != nil {
		return false
	}
	to, err := time.Parse(time.DateOnly, c.ToDate)
	if err != nil {
		return false
	}
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !date.Before(from) && !date.After(to)
}

type Client struct {
	sis   *sis.Client
	creds sis.Credentials
}

func NewClient(c *sis.Client, creds sis.Credentials) Client {
	return Client{sis: c, creds: creds}
}

// GetCourses returns the catalog entries matching the filter, sorted by
// catalog number.
func (c Client) GetCourses(ctx context.Context, filter Filter) ([]Course, error) {
	if filter.IsZero() {
		return nil, nil
	}

	params := filter.params()
	params.Set("sort-by", "catalog-number")
	params.Set("page-number", "1")

	items, err := c.sis.FetchItems(ctx, c.sis.URLs.Courses, params, c.creds, "courses")
	if err != nil {
		return nil, err
	}

	courses := make([]Course, 0, len(items))
	for _, item := range items {
		var course Course
		if err := json.Unmarshal(item, &course); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// GetCurrentCourses returns the matching courses whose effective date
// range covers today.
func (c Client) GetCurrentCourses(ctx context.Context, filter Filter, now time.Time) ([]Course, error) {
	courses, err := c.GetCourses(ctx, filter)
	if err != nil {
		return nil, err
	}

	var current []Course
	for _, course := range courses {
		if course.ActiveOn(now) {
			current = append(current, course)
		}
	}
	return current, nil
}
