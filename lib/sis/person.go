package sis

// Identifier type codes and email type codes used across SIS person
// records.
const (
	IdentifierCampusUID = "campus-uid"
	IdentifierStudentID = "student-id"

	EmailCampus = "CAMP"
	EmailOther  = "OTHR"

	NamePreferred = "Preferred"
)

// Identifier is a typed person identifier. Entries with a false disclose
// flag must never be surfaced to callers.
type Identifier struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Disclose bool   `json:"disclose"`
}

type TypeCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Email struct {
	Type         TypeCode `json:"type"`
	EmailAddress string   `json:"emailAddress"`
}

type Name struct {
	Type       TypeCode `json:"type"`
	GivenName  string   `json:"givenName"`
	FamilyName string   `json:"familyName"`
	Preferred  bool     `json:"preferred"`
}

// DisclosedIdentifier returns the first identifier of the given kind
// whose disclose flag is set.
func DisclosedIdentifier(identifiers []Identifier, kind string) (string, bool) {
	for _, identifier := range identifiers {
		if identifier.Disclose && identifier.Type == kind {
			return identifier.ID, true
		}
	}
	return "", false
}

// PreferredEmail returns the campus (CAMP) email when present, falling
// back to any other (OTHR) address.
func PreferredEmail(emails []Email) (string, bool) {
	for _, email := range emails {
		if email.Type.Code == EmailCampus {
			return email.EmailAddress, true
		}
	}
	for _, email := range emails {
		if email.Type.Code == EmailOther {
			return email.EmailAddress, true
		}
	}
	return "", false
}

// PreferredName returns a name formatted as "familyName,givenName",
// preferring an entry flagged preferred or whose type description
// matches `code`, otherwise taking the first entry.
func PreferredName(names []Name, code string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	chosen := names[0]
	for _, name := range names {
		if name.Preferred || name.Type.Description == code {
			chosen = name
			break
		}
	}
	return chosen.FamilyName + "," + chosen.GivenName, true
}
