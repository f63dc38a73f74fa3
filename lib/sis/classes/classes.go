// Package classes queries class sections and their assigned
// instructors.
package classes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"sisquery/lib/sis"

	"github.com/tidwall/gjson"
)

// Section is a class meeting instance within a term.
type Section struct {
	ID          json.Number `json:"id"`
	Class       Class       `json:"class"`
	Association Association `json:"association"`
	Meetings    []Meeting   `json:"meetings"`
}

type Class struct {
	Course Course `json:"course"`
}

type Course struct {
	SubjectArea   sis.TypeCode `json:"subjectArea"`
	CatalogNumber struct {
		Formatted string `json:"formatted"`
	} `json:"catalogNumber"`
	DisplayName string `json:"displayName"`
}

type Association struct {
	// a primary section (lecture) carries a superset of the rosters of
	// its secondary (lab, discussion) sections
	Primary bool `json:"primary"`
}

type Meeting struct {
	AssignedInstructors []InstructorAssignment `json:"assignedInstructors"`
}

type InstructorAssignment struct {
	Role       sis.TypeCode `json:"role"`
	Instructor Instructor   `json:"instructor"`
}

type Instructor struct {
	Identifiers []sis.Identifier `json:"identifiers"`
	Names       []sis.Name       `json:"names"`
	Emails      []sis.Email      `json:"emails"`
}

func (s Section) SubjectArea() string {
	return s.Class.Course.SubjectArea.Code
}

func (s Section) CatalogNumber() string {
	return s.Class.Course.CatalogNumber.Formatted
}

func (s Section) DisplayName() string {
	return s.Class.Course.DisplayName
}

func (s Section) IsPrimary() bool {
	return s.Association.Primary
}

type Client struct {
	sis   *sis.Client
	creds sis.Credentials
}

func NewClient(c *sis.Client, creds sis.Credentials) Client {
	return Client{sis: c, creds: creds}
}

// GetSectionByID returns the section for a class section number, or nil
// when the term has no such section. More than one match is a
// consistency failure, not a larger result.
func (c Client) GetSectionByID(ctx context.Context, termID, classSectionID string, includeSecondary bool) (*Section, error) {
	params := url.Values{}
	params.Set("class-section-id", classSectionID)
	params.Set("term-id", termID)
	params.Set("include-secondary", fmt.Sprintf("%t", includeSecondary))
	params.Set("page-size", "400")
	params.Set("page-number", "1")

	endpoint := fmt.Sprintf("%s/%s", c.sis.URLs.ClassSections, classSectionID)
	items, err := c.sis.FetchItems(ctx, endpoint, params, c.creds, "classSections")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	if len(items) > 1 {
		return nil, &sis.ConsistencyError{Message: fmt.Sprintf(
			"ambiguous sections for term %s section %s", termID, classSectionID,
		)}
	}

	var section Section
	if err := json.Unmarshal(items[0], &section); err != nil {
		return nil, err
	}
	return &section, nil
}

// GetSections returns every section sharing a subject area and catalog
// number in a term: lectures, labs, discussions and so on.
func (c Client) GetSections(ctx context.Context, termID, subjectArea, catalogNumber string) ([]Section, error) {
	params := url.Values{}
	params.Set("subject-area-code", strings.ToUpper(subjectArea))
	params.Set("catalog-number", strings.ToUpper(catalogNumber))
	params.Set("term-id", termID)
	params.Set("page-size", "400")
	params.Set("page-number", "1")

	items, err := c.sis.FetchItems(ctx, c.sis.URLs.ClassSections, params, c.creds, "classSections")
	if err != nil {
		return nil, err
	}

	sections := make([]Section, 0, len(items))
	for _, item := range items {
		var section Section
		if err := json.Unmarshal(item, &section); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// GetCourseIDs returns the cs-course-id of every class offered for a
// subject area in a term.
func (c Client) GetCourseIDs(ctx context.Context, termID, subjectArea string) ([]string, error) {
	params := url.Values{}
	params.Set("subject-area-code", strings.ToUpper(subjectArea))
	params.Set("term-id", termID)
	params.Set("page-size", "100")
	params.Set("page-number", "1")

	items, err := c.sis.FetchItems(ctx, c.sis.URLs.Classes, params, c.creds, "classes")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, item := range items {
		id := gjson.GetBytes(item, `course.identifiers.#(type=="cs-course-id").id`)
		if id.Exists() {
			ids = append(ids, id.String())
		}
	}
	return ids, nil
}

// GetInstructors returns instructor identifiers for a class section.
// Exact mode reads only the named section; non-exact mode unions every
// section sharing the course's subject area and catalog number, since a
// course's staff is split across lecture, lab and discussion sections.
func (c Client) GetInstructors(
	ctx context.Context,
	termID, classSectionID string,
	exact bool,
	role RoleFilter,
	identifier string,
) ([]string, error) {
	section, err := c.GetSectionByID(ctx, termID, classSectionID, true)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, nil
	}

	if exact {
		return setToSorted(SectionInstructors(*section, role, identifier)), nil
	}

	subjectArea := section.SubjectArea()
	catalogNumber := section.CatalogNumber()
	slog.DebugContext(ctx, "resolving course sections",
		"subject_area", subjectArea,
		"catalog_number", catalogNumber,
	)

	sections, err := c.GetSections(ctx, termID, subjectArea, catalogNumber)
	if err != nil {
		return nil, err
	}

	union := map[string]bool{}
	for _, s := range sections {
		for id := range SectionInstructors(s, role, identifier) {
			union[id] = true
		}
	}
	return setToSorted(union), nil
}

// SectionInstructors extracts the disclosed identifiers of a section's
// assigned instructors that pass the role filter. `identifier` selects
// campus-uid or email extraction.
func SectionInstructors(section Section, role RoleFilter, identifier string) map[string]bool {
	ids := map[string]bool{}
	for _, meeting := range section.Meetings {
		for _, assignment := range meeting.AssignedInstructors {
			if !role.Matches(assignment.Role.Code) {
				continue
			}
			var id string
			var ok bool
			if identifier == "email" {
				id, ok = sis.PreferredEmail(assignment.Instructor.Emails)
			} else {
				id, ok = sis.DisclosedIdentifier(assignment.Instructor.Identifiers, identifier)
			}
			if ok {
				ids[id] = true
			}
		}
	}
	return ids
}
