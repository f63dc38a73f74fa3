package commands

import (
	"fmt"
	"os"

	"sisquery/lib/serviceutil"
	"sisquery/lib/sis"
	"sisquery/lib/sis/classes"
	"sisquery/lib/sis/enrollments"

	"github.com/spf13/cobra"
)

var (
	peopleTerm         string
	peopleYear         string
	peopleSemester     string
	peopleClassNumber  string
	peopleConstituents string
	peopleIdentifier   string
	peopleExact        bool
)

func init() {
	peopleCmd.Flags().StringVarP(&peopleTerm, "term", "t", "",
		"term id or position, e.g. 2192 or Current")
	peopleCmd.Flags().StringVarP(&peopleYear, "year", "y", "", "course year, e.g. 2019")
	peopleCmd.Flags().StringVarP(&peopleSemester, "semester", "s", "",
		"semester: spring, summer or fall")
	peopleCmd.Flags().StringVarP(&peopleClassNumber, "class-number", "n", "",
		"class section number, e.g. 14720")
	peopleCmd.Flags().StringVarP(&peopleConstituents, "constituents", "c", "enrolled",
		"enrolled, waitlisted, dropped, students, instructors, gsis or staff")
	peopleCmd.Flags().StringVarP(&peopleIdentifier, "identifier", "i", sis.IdentifierCampusUID,
		"campus-uid or email")
	peopleCmd.Flags().BoolVar(&peopleExact, "exact", false,
		"exclude data from sections with matching subject and catalog number")
	peopleCmd.MarkFlagRequired("class-number")
	rootCmd.AddCommand(peopleCmd)
}

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Print the people of a class section.",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClients()
		ctx := cmd.Context()

		termID, err := resolveTermID(ctx, c.Terms, peopleTerm, peopleYear, peopleSemester)
		if err != nil {
			serviceutil.Fatal("failed to resolve term", err)
		}
		if termID == "" {
			// between semesters
			return
		}

		var ids []string
		if role, ok := classes.ParseRoleFilter(peopleConstituents); ok {
			ids, err = c.Classes.GetInstructors(
				ctx, termID, peopleClassNumber, peopleExact, role, peopleIdentifier,
			)
		} else if constituency, ok := enrollments.ParseConstituency(peopleConstituents); ok {
			ids, err = c.Enrollments.GetStudents(
				ctx, termID, peopleClassNumber, constituency, peopleExact, peopleIdentifier,
			)
		} else {
			fmt.Fprintf(os.Stderr, "unknown constituents: %s\n", peopleConstituents)
			os.Exit(1)
		}
		if err != nil {
			serviceutil.Fatal("failed to fetch people", err)
		}

		for _, id := range ids {
			fmt.Fprintln(os.Stdout, id)
		}
	},
}
