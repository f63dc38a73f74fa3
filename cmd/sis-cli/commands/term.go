package commands

import (
	"fmt"
	"os"

	"sisquery/lib/serviceutil"
	"sisquery/lib/sis/terms"

	"github.com/spf13/cobra"
)

var (
	termPosition string
	termYear     string
	termSemester string
)

func init() {
	termCmd.Flags().StringVarP(&termPosition, "position", "p", terms.Current,
		"temporal position: Current, Next or Previous")
	termCmd.Flags().StringVarP(&termYear, "year", "y", "", "term year, e.g. 2019")
	termCmd.Flags().StringVarP(&termSemester, "semester", "s", "",
		"semester: spring, summer or fall")
	rootCmd.AddCommand(termCmd)
}

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Print a term identifier.",
	Run: func(cmd *cobra.Command, args []string) {
		if (termYear == "") != (termSemester == "") {
			fmt.Fprintln(os.Stderr, "specify both year and semester, or neither")
			os.Exit(1)
		}

		c := newClients()

		var termID string
		var err error
		if termYear == "" {
			termID, err = c.Terms.GetTermID(cmd.Context(), termPosition)
		} else {
			termID, err = c.Terms.GetTermIDForYearSemester(cmd.Context(), termYear, termSemester)
		}
		if err != nil {
			serviceutil.Fatal("failed to resolve term", err)
		}
		if termID != "" {
			fmt.Println(termID)
		}
	},
}
