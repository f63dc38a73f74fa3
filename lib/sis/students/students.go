// Package students queries a student's academic record.
package students

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"sisquery/lib/sis"
)

// Student identifier id-type values accepted by the students API.
const (
	IDTypeCampusID  = "campus-id"
	IDTypeStudentID = "student-id"
)

// AcademicStatus is one of a student's academic careers; it carries
// zero or more declared plans.
type AcademicStatus struct {
	StudentPlans []StudentPlan `json:"studentPlans"`
}

type StudentPlan struct {
	AcademicPlan AcademicPlan `json:"academicPlan"`
}

type AcademicPlan struct {
	Plan sis.TypeCode `json:"plan"`
}

type Client struct {
	sis   *sis.Client
	creds sis.Credentials
}

func NewClient(c *sis.Client, creds sis.Credentials) Client {
	return Client{sis: c, creds: creds}
}

func (c Client) fetchStudentItems(
	ctx context.Context,
	identifier, idType, itemPath string,
	extraParams map[string]string,
) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s", c.sis.URLs.Students, identifier)

	params := url.Values{}
	params.Set("id-type", idType)
	params.Set("affiliation-status", "ACT")
	for key, value := range extraParams {
		params.Set(key, value)
	}

	return c.sis.FetchItems(ctx, endpoint, params, c.creds, itemPath)
}

// GetAcademicStatuses returns a student's academic statuses, with plans
// and attributes included and everything else elided.
func (c Client) GetAcademicStatuses(ctx context.Context, identifier, idType string) ([]AcademicStatus, error) {
	items, err := c.fetchStudentItems(ctx, identifier, idType, "academicStatuses", map[string]string{
		"inc-acad":               "true",
		"inc-attr":               "true",
		"inc-regs":               "false",
		"inc-cntc":               "false",
		"inc-dmgr":               "false",
		"inc-work":               "false",
		"inc-dob":                "false",
		"inc-gndr":               "false",
		"inc-completed-programs": "true",
	})
	if err != nil {
		return nil, err
	}

	statuses := make([]AcademicStatus, 0, len(items))
	for _, item := range items {
		var status AcademicStatus
		if err := json.Unmarshal(item, &status); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// GetAcademicPlanCodes flattens a student's statuses into their plan
// codes. A student with no plans yields an empty result.
func (c Client) GetAcademicPlanCodes(ctx context.Context, identifier, idType string) ([]string, error) {
	statuses, err := c.GetAcademicStatuses(ctx, identifier, idType)
	if err != nil {
		return nil, err
	}

	var codes []string
	for _, status := range statuses {
		for _, plan := range status.StudentPlans {
			codes = append(codes, plan.AcademicPlan.Plan.Code)
		}
	}
	return codes, nil
}

// GetEmail returns the student's campus email, falling back to any
// other disclosed address.
func (c Client) GetEmail(ctx context.Context, identifier, idType string) (string, error) {
	items, err := c.fetchStudentItems(ctx, identifier, idType, "emails", map[string]string{
		"inc-cntc": "true",
	})
	if err != nil {
		return "", err
	}

	emails := make([]sis.Email, 0, len(items))
	for _, item := range items {
		var email sis.Email
		if err := json.Unmarshal(item, &email); err != nil {
			return "", err
		}
		emails = append(emails, email)
	}

	email, _ := sis.PreferredEmail(emails)
	return email, nil
}

// GetName returns the student's name formatted "familyName,givenName",
// preferring the name type named by `code`, e.g. "Preferred".
func (c Client) GetName(ctx context.Context, identifier, idType, code string) (string, error) {
	items, err := c.fetchStudentItems(ctx, identifier, idType, "names", map[string]string{
		"inc-cntc": "true",
	})
	if err != nil {
		return "", err
	}

	names := make([]sis.Name, 0, len(items))
	for _, item := range items {
		var name sis.Name
		if err := json.Unmarshal(item, &name); err != nil {
			return "", err
		}
		names = append(names, name)
	}

	name, _ := sis.PreferredName(names, code)
	return name, nil
}
