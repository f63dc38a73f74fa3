package sis

import (
	"fmt"
	"strings"
)

// Credentials is a static app_id/app_key pair for one SIS sub-API.
// The keys are pre-shared values; there is no token lifecycle.
type Credentials struct {
	AppID  string `json:"app_id"`
	AppKey string `json:"app_key"`
}

func (c Credentials) IsZero() bool {
	return c.AppID == "" && c.AppKey == ""
}

// CredentialStore holds one credential pair per SIS sub-API.
type CredentialStore struct {
	Terms       Credentials `json:"terms"`
	Classes     Credentials `json:"classes"`
	Enrollments Credentials `json:"enrollments"`
	Students    Credentials `json:"students"`
	Courses     Credentials `json:"courses"`
}

// Validate reports every sub-API whose pair is missing or incomplete.
// `source` names the file the store was read from.
func (s CredentialStore) Validate(source string) error {
	var missing []string
	for _, pair := range []struct {
		name  string
		creds Credentials
	}{
		{"terms", s.Terms},
		{"classes", s.Classes},
		{"enrollments", s.Enrollments},
		{"students", s.Students},
		{"courses", s.Courses},
	} {
		if pair.creds.AppID == "" || pair.creds.AppKey == "" {
			missing = append(missing, pair.name)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Message: fmt.Sprintf(
			"missing credential pairs in %s: %s",
			source, strings.Join(missing, ", "),
		)}
	}
	return nil
}
