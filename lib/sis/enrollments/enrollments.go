// Package enrollments queries section rosters and a student's own
// enrollments.
package enrollments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"

	"sisquery/lib/sis"
	"sisquery/lib/sis/classes"

	"github.com/tidwall/gjson"
)

// Enrollment links a student to a class section.
type Enrollment struct {
	Student          Student          `json:"student"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus"`
}

type Student struct {
	Identifiers []sis.Identifier `json:"identifiers"`
	Emails      []sis.Email      `json:"emails"`
	Names       []sis.Name       `json:"names"`
}

type EnrollmentStatus struct {
	Status sis.TypeCode `json:"status"`
}

// StatusCode returns the enrollment's single-letter status code:
// E enrolled, W waitlisted, D dropped.
func (e Enrollment) StatusCode() string {
	return e.EnrollmentStatus.Status.Code
}

// CampusUID returns the student's disclosed campus uid.
func (e Enrollment) CampusUID() (string, bool) {
	return sis.DisclosedIdentifier(e.Student.Identifiers, sis.IdentifierCampusUID)
}

// CampusEmail returns the student's campus email, falling back to any
// other address.
func (e Enrollment) CampusEmail() (string, bool) {
	return sis.PreferredEmail(e.Student.Emails)
}

// Constituency names the slice of a roster a caller wants.
type Constituency string

const (
	Enrolled   Constituency = "enrolled"
	Waitlisted Constituency = "waitlisted"
	Dropped    Constituency = "dropped"
	// Students means the unfiltered roster.
	Students Constituency = "students"
)

var statusCodes = map[Constituency]string{
	Enrolled:   "E",
	Waitlisted: "W",
	Dropped:    "D",
}

func ParseConstituency(s string) (Constituency, bool) {
	c := Constituency(s)
	switch c {
	case Enrolled, Waitlisted, Dropped, Students:
		return c, true
	}
	return "", false
}

// FilterStatus retains the enrollments whose status code equals `code`.
func FilterStatus(all []Enrollment, code string) []Enrollment {
	var out []Enrollment
	for _, e := range all {
		if e.StatusCode() == code {
			out = append(out, e)
		}
	}
	return out
}

type Client struct {
	sis     *sis.Client
	creds   sis.Credentials
	classes classes.Client
}

func NewClient(c *sis.Client, creds sis.Credentials, classesClient classes.Client) Client {
	return Client{sis: c, creds: creds, classes: classesClient}
}

// GetSectionEnrollments returns every enrollment of a single class
// section.
func (c Client) GetSectionEnrollments(ctx context.Context, termID, sectionID string) ([]Enrollment, error) {
	endpoint := fmt.Sprintf("%s/terms/%s/classes/sections/%s", c.sis.URLs.Enrollments, termID, sectionID)

	params := url.Values{}
	params.Set("page-number", "1")
	params.Set("page-size", "100") // maximum

	items, err := c.sis.FetchItems(ctx, endpoint, params, c.creds, "classSectionEnrollments")
	if err != nil {
		return nil, err
	}

	enrollments := make([]Enrollment, 0, len(items))
	for _, item := range items {
		var e Enrollment
		if err := json.Unmarshal(item, &e); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	slog.DebugContext(ctx, "section enrollments", "section_id", sectionID, "count", len(enrollments))
	return enrollments, nil
}

// GetCourseEnrollments returns the union of the enrollments of every
// lecture-equivalent section of a course. Per-section fetches are
// independent round trips and run concurrently.
func (c Client) GetCourseEnrollments(ctx context.Context, termID, subjectArea, catalogNumber string) ([]Enrollment, error) {
	sectionIDs, err := c.GetLectureSectionIDs(ctx, termID, subjectArea, catalogNumber)
	if err != nil {
		return nil, err
	}

	var enrollments []Enrollment
	var errlist []error
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, sectionID := range sectionIDs {
		wg.Add(1)
		go func(sectionID string) {
			defer wg.Done()

			sectionEnrollments, err := c.GetSectionEnrollments(ctx, termID, sectionID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errlist = append(errlist, err)
				return
			}
			enrollments = append(enrollments, sectionEnrollments...)
		}(sectionID)
	}
	wg.Wait()

	if len(errlist) > 0 {
		return nil, errors.Join(errlist...)
	}
	return enrollments, nil
}

// GetStudents returns student identifiers (campus uids or emails) for a
// class section. Exact mode reads only that section's roster. Non-exact
// mode resolves the course's subject area and catalog number and unions
// the rosters of every lecture-equivalent section, since lab-only
// rosters can omit students who are only in the lecture. The set
// collapses a student enrolled in both a lecture and its paired lab.
func (c Client) GetStudents(
	ctx context.Context,
	termID, classSectionID string,
	constituency Constituency,
	exact bool,
	identifier string,
) ([]string, error) {
	var enrollments []Enrollment
	var err error

	if exact {
		enrollments, err = c.GetSectionEnrollments(ctx, termID, classSectionID)
		if err != nil {
			return nil, err
		}
	} else {
		section, err := c.classes.GetSectionByID(ctx, termID, classSectionID, true)
		if err != nil {
			return nil, err
		}
		if section == nil {
			return nil, nil
		}

		enrollments, err = c.GetCourseEnrollments(ctx, termID, section.SubjectArea(), section.CatalogNumber())
		if err != nil {
			return nil, err
		}
	}

	if code, ok := statusCodes[constituency]; ok {
		enrollments = FilterStatus(enrollments, code)
	}

	ids := map[string]bool{}
	for _, e := range enrollments {
		var id string
		var ok bool
		if identifier == "email" {
			id, ok = e.CampusEmail()
		} else {
			id, ok = e.CampusUID()
		}
		if ok {
			ids[id] = true
		}
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// CourseAttr selects the projection of a student-enrollments query.
type CourseAttr string

const (
	CourseID    CourseAttr = "course-id"
	DisplayName CourseAttr = "display-name"
)

// GetStudentEnrollments returns the courses a student is enrolled in
// for a term, projected as cs-course-ids or display names.
func (c Client) GetStudentEnrollments(
	ctx context.Context,
	identifier, termID, idType string,
	enrolledOnly bool,
	attr CourseAttr,
) ([]string, error) {
	endpoint := fmt.Sprintf("%s/students/%s", c.sis.URLs.Enrollments, identifier)

	params := url.Values{}
	params.Set("page-number", "1")
	params.Set("page-size", "100") // maximum
	params.Set("id-type", idType)
	params.Set("term-id", termID)
	params.Set("enrolled-only", fmt.Sprintf("%t", enrolledOnly))
	params.Set("primary-only", "true")

	items, err := c.sis.FetchItems(ctx, endpoint, params, c.creds, "studentEnrollments")
	if err != nil {
		return nil, err
	}

	var out []string
	for _, item := range items {
		var value gjson.Result
		switch attr {
		case DisplayName:
			value = gjson.GetBytes(item, "classSection.class.course.displayName")
		default:
			value = gjson.GetBytes(item, `classSection.class.course.identifiers.#(type=="cs-course-id").id`)
		}
		if value.Exists() {
			out = append(out, value.String())
		}
	}
	return out, nil
}

// SectionDescriptor is a terse section listing from the descriptors
// endpoint, e.g. {code: "32227", description: "2019 Spring ASTRON 128 001 LAB 001"}.
type SectionDescriptor struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// LAB is a lecture-equivalent code because some courses have labs with
// no separate lecture section.
var lectureCodes = []string{"LEC", "SES", "WBL", "LAB"}

// FilterLectures returns the codes of the descriptors classified as
// lecture-equivalent: any whitespace token of the description matches a
// lecture-like section code.
func FilterLectures(descriptors []SectionDescriptor) []string {
	var codes []string
	for _, descriptor := range descriptors {
		if descriptor.Description == "" {
			continue
		}
		tokens := strings.Fields(descriptor.Description)
		for _, token := range tokens {
			matched := false
			for _, code := range lectureCodes {
				if token == code {
					matched = true
					break
				}
			}
			if matched {
				codes = append(codes, descriptor.Code)
				break
			}
		}
	}
	return codes
}

// GetLectureSectionIDs returns the lecture-equivalent section numbers
// of a course. Lecture enrollments contain a superset of the
// enrollments of the other section types. An empty catalogNumber lists
// lectures across the whole subject area.
func (c Client) GetLectureSectionIDs(ctx context.Context, termID, subjectArea, catalogNumber string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/terms/%s/classes/sections/descriptors", c.sis.URLs.Enrollments, termID)

	params := url.Values{}
	params.Set("page-number", "1")
	params.Set("subject-area-code", subjectArea)
	if catalogNumber != "" {
		params.Set("catalog-number", catalogNumber)
	}

	items, err := c.sis.FetchItems(ctx, endpoint, params, c.creds, "fieldValues")
	if err != nil {
		return nil, err
	}

	descriptors := make([]SectionDescriptor, 0, len(items))
	for _, item := range items {
		var descriptor SectionDescriptor
		if err := json.Unmarshal(item, &descriptor); err != nil {
			return nil, err
		}
		descriptors = append(descriptors, descriptor)
	}
	return FilterLectures(descriptors), nil
}
