package commands

import (
	"fmt"
	"os"

	"sisquery/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	sectionTerm        string
	sectionYear        string
	sectionSemester    string
	sectionClassNumber string
	sectionAttribute   string
)

func init() {
	sectionCmd.Flags().StringVarP(&sectionTerm, "term", "t", "",
		"term id or position, e.g. 2192 or Current")
	sectionCmd.Flags().StringVarP(&sectionYear, "year", "y", "", "course year, e.g. 2019")
	sectionCmd.Flags().StringVarP(&sectionSemester, "semester", "s", "",
		"semester: spring, summer or fall")
	sectionCmd.Flags().StringVarP(&sectionClassNumber, "class-number", "n", "",
		"class section number, e.g. 14720")
	sectionCmd.Flags().StringVarP(&sectionAttribute, "attribute", "a", "all",
		"subject_area, catalog_number, display_name, is_primary or all")
	sectionCmd.MarkFlagRequired("class-number")
	rootCmd.AddCommand(sectionCmd)
}

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Print information about a class section.",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClients()
		ctx := cmd.Context()

		termID, err := resolveTermID(ctx, c.Terms, sectionTerm, sectionYear, sectionSemester)
		if err != nil {
			serviceutil.Fatal("failed to resolve term", err)
		}
		if termID == "" {
			return
		}

		section, err := c.Classes.GetSectionByID(ctx, termID, sectionClassNumber, false)
		if err != nil {
			serviceutil.Fatal("failed to fetch section", err)
		}
		if section == nil {
			return
		}

		switch sectionAttribute {
		case "subject_area":
			fmt.Println(section.SubjectArea())
		case "catalog_number":
			fmt.Println(section.CatalogNumber())
		case "display_name":
			fmt.Println(section.DisplayName())
		case "is_primary":
			if section.IsPrimary() {
				fmt.Println("1")
			} else {
				fmt.Println("0")
			}
		case "all":
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendRows([]table.Row{
				{"id", section.ID.String()},
				{"display name", section.DisplayName()},
				{"subject area", section.SubjectArea()},
				{"catalog number", section.CatalogNumber()},
				{"primary", section.IsPrimary()},
				{"meetings", len(section.Meetings)},
			})
			t.SetStyle(table.StyleRounded)
			t.Render()
		default:
			fmt.Fprintf(os.Stderr, "unknown attribute: %s\n", sectionAttribute)
			os.Exit(1)
		}
	},
}
