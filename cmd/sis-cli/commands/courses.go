package commands

import (
	"fmt"

	"sisquery/lib/serviceutil"
	"sisquery/lib/sis"
	"sisquery/lib/sis/enrollments"

	"github.com/spf13/cobra"
)

var (
	coursesIdentifier        string
	coursesIDType            string
	coursesYear              string
	coursesSemester          string
	coursesAttribute         string
	coursesIncludeWaitlisted bool
)

func init() {
	coursesCmd.Flags().StringVarP(&coursesIdentifier, "identifier", "i", "", "id of student")
	coursesCmd.Flags().StringVarP(&coursesIDType, "id-type", "t", sis.IdentifierCampusUID,
		"campus-uid or student-id")
	coursesCmd.Flags().StringVarP(&coursesYear, "year", "y", "", "term year, e.g. 2019")
	coursesCmd.Flags().StringVarP(&coursesSemester, "semester", "s", "",
		"semester: spring, summer or fall")
	coursesCmd.Flags().StringVarP(&coursesAttribute, "attribute", "a", string(enrollments.CourseID),
		"course-id or display-name")
	coursesCmd.Flags().BoolVarP(&coursesIncludeWaitlisted, "include-waitlisted", "w", false,
		"include waitlisted courses")
	coursesCmd.MarkFlagRequired("identifier")
	coursesCmd.MarkFlagRequired("year")
	coursesCmd.MarkFlagRequired("semester")
	rootCmd.AddCommand(coursesCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Print the courses a student is enrolled in.",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClients()
		ctx := cmd.Context()

		termID, err := c.Terms.GetTermIDForYearSemester(ctx, coursesYear, coursesSemester)
		if err != nil {
			serviceutil.Fatal("failed to resolve term", err)
		}
		if termID == "" {
			return
		}

		courses, err := c.Enrollments.GetStudentEnrollments(
			ctx, coursesIdentifier, termID, coursesIDType,
			!coursesIncludeWaitlisted,
			enrollments.CourseAttr(coursesAttribute),
		)
		if err != nil {
			serviceutil.Fatal("failed to fetch enrollments", err)
		}

		for _, course := range courses {
			fmt.Println(course)
		}
	},
}
