package classes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sisquery/lib/sis"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testCreds = sis.Credentials{AppID: "id", AppKey: "key"}

func instructorAssignment(role, uid string, disclose bool) InstructorAssignment {
	return InstructorAssignment{
		Role: sis.TypeCode{Code: role},
		Instructor: Instructor{
			Identifiers: []sis.Identifier{
				{Type: sis.IdentifierCampusUID, ID: uid, Disclose: disclose},
			},
		},
	}
}

func fixtureSection() Section {
	return Section{
		Meetings: []Meeting{
			{
				AssignedInstructors: []InstructorAssignment{
					instructorAssignment(RolePrimaryInstructor, "pi-1", true),
					instructorAssignment(RoleTeachingAssistant, "gsi-1", true),
					instructorAssignment(RoleAdministrativeProxy, "aprx-1", true),
				},
			},
			{
				AssignedInstructors: []InstructorAssignment{
					instructorAssignment(RolePrimaryInstructor, "pi-2", false),
					instructorAssignment(RoleTeachingAssistant, "gsi-2", true),
					// no role code at all
					{Instructor: Instructor{Identifiers: []sis.Identifier{
						{Type: sis.IdentifierCampusUID, ID: "norole-1", Disclose: true},
					}}},
				},
			},
		},
	}
}

func TestRoleFilterPartition(t *testing.T) {
	section := fixtureSection()

	instructors := SectionInstructors(section, Instructors, sis.IdentifierCampusUID)
	gsis := SectionInstructors(section, GSIs, sis.IdentifierCampusUID)
	staff := SectionInstructors(section, Staff, sis.IdentifierCampusUID)

	// pi-2 is excluded everywhere: its identifier is not disclosed
	require.Equal(t, map[string]bool{"pi-1": true}, instructors)
	require.Equal(t, map[string]bool{"gsi-1": true, "gsi-2": true}, gsis)

	// staff is the union of the two role sets and never contains the
	// administrative proxy
	for id := range instructors {
		require.True(t, staff[id])
	}
	for id := range gsis {
		require.True(t, staff[id])
	}
	require.NotContains(t, staff, "aprx-1")
	require.NotContains(t, staff, "norole-1")

	// instructors and gsis are disjoint
	for id := range instructors {
		require.NotContains(t, gsis, id)
	}
}

func TestRoleFilterMatches(t *testing.T) {
	testCases := []struct {
		filter RoleFilter
		code   string
		expect bool
	}{
		{Instructors, RolePrimaryInstructor, true},
		{Instructors, RoleTeachingAssistant, false},
		{Instructors, "", false},
		{GSIs, RoleTeachingAssistant, true},
		{GSIs, RolePrimaryInstructor, false},
		{Staff, RolePrimaryInstructor, true},
		{Staff, RoleTeachingAssistant, true},
		{Staff, "ICNT", true},
		{Staff, RoleAdministrativeProxy, false},
		{Staff, "", false},
	}

	for _, test := range testCases {
		require.Equal(
			t, test.expect, test.filter.Matches(test.code),
			"filter %s code %q", test.filter, test.code,
		)
	}
}

const sectionJSON = `{
	"id": 32227,
	"class": {
		"course": {
			"subjectArea": {"code": "STAT"},
			"catalogNumber": {"formatted": "215B"},
			"displayName": "STAT 215B"
		}
	},
	"association": {"primary": true},
	"meetings": [
		{
			"assignedInstructors": [
				{
					"role": {"code": "PI"},
					"instructor": {
						"identifiers": [
							{"type": "campus-uid", "id": "123", "disclose": true}
						]
					}
				}
			]
		}
	]
}`

func newTestClients(t *testing.T, handler http.HandlerFunc) Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	core := sis.NewClient(sis.ClientOptions{
		Endpoints: sis.Endpoints{
			Classes:       server.URL + "/classes",
			ClassSections: server.URL + "/classes/sections",
		},
	})
	return NewClient(core, testCreds)
}

func TestGetSectionByID(t *testing.T) {
	client := newTestClients(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/classes/sections/32227", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("include-secondary"))
		if r.URL.Query().Get("page-number") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"apiResponse":{"response":{"classSections":[%s]}}}`, sectionJSON)
	})

	section, err := client.GetSectionByID(context.Background(), "2192", "32227", true)
	require.NoError(t, err)
	require.NotNil(t, section)
	require.Equal(t, "STAT", section.SubjectArea())
	require.Equal(t, "215B", section.CatalogNumber())
	require.Equal(t, "STAT 215B", section.DisplayName())
	require.True(t, section.IsPrimary())

	diff := cmp.Diff(
		map[string]bool{"123": true},
		SectionInstructors(*section, Instructors, sis.IdentifierCampusUID),
	)
	require.Empty(t, diff)
}

func TestGetSectionByIDMissing(t *testing.T) {
	client := newTestClients(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	section, err := client.GetSectionByID(context.Background(), "2192", "99999", false)
	require.NoError(t, err)
	require.Nil(t, section)
}

func TestGetSectionByIDAmbiguous(t *testing.T) {
	client := newTestClients(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page-number") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"apiResponse":{"response":{"classSections":[%s,%s]}}}`, sectionJSON, sectionJSON)
	})

	_, err := client.GetSectionByID(context.Background(), "2192", "32227", false)
	var consistencyErr *sis.ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
}

func TestGetInstructorsNonExactUnion(t *testing.T) {
	lecture := `{
		"id": 1,
		"class": {"course": {
			"subjectArea": {"code": "ASTRON"},
			"catalogNumber": {"formatted": "128"}
		}},
		"association": {"primary": true},
		"meetings": [{"assignedInstructors": [
			{"role": {"code": "PI"}, "instructor": {"identifiers": [
				{"type": "campus-uid", "id": "shared", "disclose": true}
			]}},
			{"role": {"code": "APRX"}, "instructor": {"identifiers": [
				{"type": "campus-uid", "id": "proxy", "disclose": true}
			]}}
		]}]
	}`
	lab := `{
		"id": 2,
		"class": {"course": {
			"subjectArea": {"code": "ASTRON"},
			"catalogNumber": {"formatted": "128"}
		}},
		"association": {"primary": false},
		"meetings": [{"assignedInstructors": [
			{"role": {"code": "PI"}, "instructor": {"identifiers": [
				{"type": "campus-uid", "id": "shared", "disclose": true}
			]}}
		]}]
	}`

	client := newTestClients(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page-number") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.URL.Path {
		case "/classes/sections/1":
			fmt.Fprintf(w, `{"apiResponse":{"response":{"classSections":[%s]}}}`, lecture)
		case "/classes/sections":
			require.Equal(t, "ASTRON", r.URL.Query().Get("subject-area-code"))
			require.Equal(t, "128", r.URL.Query().Get("catalog-number"))
			fmt.Fprintf(w, `{"apiResponse":{"response":{"classSections":[%s,%s]}}}`, lecture, lab)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	// the same instructor in lecture and lab collapses to one entry,
	// the administrative proxy never appears
	ids, err := client.GetInstructors(
		context.Background(), "2192", "1", false, Staff, sis.IdentifierCampusUID,
	)
	require.NoError(t, err)
	require.Equal(t, []string{"shared"}, ids)
}
