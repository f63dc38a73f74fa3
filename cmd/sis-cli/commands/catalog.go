package commands

import (
	"os"

	"sisquery/lib/serviceutil"
	"sisquery/lib/sis/courses"
	"sisquery/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	catalogFilter  courses.Filter
	catalogCurrent bool
)

func init() {
	catalogCmd.Flags().StringVar(&catalogFilter.StatusCode, "status-code", "", "course status code")
	catalogCmd.Flags().StringVar(&catalogFilter.SubjectAreaCode, "subject-area", "", `subject area code, e.g. "STAT"`)
	catalogCmd.Flags().StringVar(&catalogFilter.CatalogNumber, "catalog-number", "", `catalog number, e.g. "215B"`)
	catalogCmd.Flags().StringVar(&catalogFilter.CoursePrefix, "course-prefix", "", "course prefix")
	catalogCmd.Flags().StringVar(&catalogFilter.CourseNumber, "course-number", "", "course number")
	catalogCmd.Flags().StringVar(&catalogFilter.AcademicCareerCode, "career", "", "academic career code")
	catalogCmd.Flags().BoolVar(&catalogCurrent, "current", false,
		"only courses whose effective dates cover today")
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print catalog courses matching filter criteria.",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClients()
		ctx := cmd.Context()

		var matched []courses.Course
		var err error
		if catalogCurrent {
			matched, err = c.Courses.GetCurrentCourses(ctx, catalogFilter, timezone.Today())
		} else {
			matched, err = c.Courses.GetCourses(ctx, catalogFilter)
		}
		if err != nil {
			serviceutil.Fatal("failed to fetch courses", err)
		}
		if len(matched) == 0 {
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Title", "Units", "Career", "Formats"})
		for _, course := range matched {
			t.AppendRow(table.Row{
				course.DisplayName,
				course.Title,
				course.Credit.Value.Fixed.Units.String(),
				course.AcademicCareer.Description,
				course.FormatsOffered.Description,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
