package commands

import (
	"fmt"
	"os"

	"sisquery/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	classesSubjectArea string
	classesTerm        string
	classesIdentifier  string
)

func init() {
	classesCmd.Flags().StringVarP(&classesSubjectArea, "subject-area", "s", "",
		`subject area, e.g. "STAT"`)
	classesCmd.Flags().StringVarP(&classesTerm, "term", "t", "",
		"term id or position; defaults to the current term")
	classesCmd.Flags().StringVarP(&classesIdentifier, "identifier", "i", "",
		"cs-course-id or class-number")
	classesCmd.MarkFlagRequired("subject-area")
	classesCmd.MarkFlagRequired("identifier")
	rootCmd.AddCommand(classesCmd)
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Print the classes of a subject area.",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClients()
		ctx := cmd.Context()

		termID, err := resolveTermID(ctx, c.Terms, classesTerm, "", "")
		if err != nil {
			serviceutil.Fatal("failed to resolve term", err)
		}
		if termID == "" {
			return
		}

		var ids []string
		switch classesIdentifier {
		case "cs-course-id":
			ids, err = c.Classes.GetCourseIDs(ctx, termID, classesSubjectArea)
		case "class-number":
			ids, err = c.Enrollments.GetLectureSectionIDs(ctx, termID, classesSubjectArea, "")
		default:
			fmt.Fprintf(os.Stderr, "unknown identifier: %s\n", classesIdentifier)
			os.Exit(1)
		}
		if err != nil {
			serviceutil.Fatal("failed to fetch classes", err)
		}

		for _, id := range ids {
			fmt.Println(id)
		}
	},
}
