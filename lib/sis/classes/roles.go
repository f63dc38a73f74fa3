package classes

import (
	"slices"
	"sort"
)

// Instructor assignment role codes.
const (
	RolePrimaryInstructor   = "PI"
	RoleTeachingAssistant   = "TNIC"
	RoleAdministrativeProxy = "APRX"
)

// RoleFilter selects which instructor assignments count.
type RoleFilter string

const (
	// primary instructors only
	Instructors RoleFilter = "instructors"
	// graduate student instructors (teaching assistants) only
	GSIs RoleFilter = "gsis"
	// everyone with a teaching role; APRX administrative proxies are
	// always excluded
	Staff RoleFilter = "staff"
)

var RoleFilters = []RoleFilter{Instructors, GSIs, Staff}

func ParseRoleFilter(s string) (RoleFilter, bool) {
	f := RoleFilter(s)
	return f, slices.Contains(RoleFilters, f)
}

// Matches reports whether an assignment with the given role code passes
// the filter. A missing role code never matches.
func (f RoleFilter) Matches(code string) bool {
	if code == "" {
		return false
	}
	switch f {
	case Instructors:
		return code == RolePrimaryInstructor
	case GSIs:
		return code == RoleTeachingAssistant
	case Staff:
		return code != RoleAdministrativeProxy
	}
	return false
}

func setToSorted(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
