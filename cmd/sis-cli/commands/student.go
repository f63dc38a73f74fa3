package commands

import (
	"fmt"
	"os"

	"sisquery/lib/serviceutil"
	"sisquery/lib/sis"
	"sisquery/lib/sis/students"

	"github.com/spf13/cobra"
)

var (
	studentIdentifier string
	studentIDType     string
	studentAttribute  string
)

func init() {
	studentCmd.Flags().StringVarP(&studentIdentifier, "identifier", "i", "", "id of student")
	studentCmd.Flags().StringVarP(&studentIDType, "id-type", "t", students.IDTypeCampusID,
		"campus-id or student-id")
	studentCmd.Flags().StringVarP(&studentAttribute, "attribute", "a", "",
		"plans, email or name")
	studentCmd.MarkFlagRequired("identifier")
	studentCmd.MarkFlagRequired("attribute")
	rootCmd.AddCommand(studentCmd)
}

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Print information about a student.",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClients()
		ctx := cmd.Context()

		switch studentAttribute {
		case "plans":
			codes, err := c.Students.GetAcademicPlanCodes(ctx, studentIdentifier, studentIDType)
			if err != nil {
				serviceutil.Fatal("failed to fetch academic plans", err)
			}
			for _, code := range codes {
				fmt.Println(code)
			}
		case "email":
			email, err := c.Students.GetEmail(ctx, studentIdentifier, studentIDType)
			if err != nil {
				serviceutil.Fatal("failed to fetch email", err)
			}
			if email != "" {
				fmt.Println(email)
			}
		case "name":
			name, err := c.Students.GetName(ctx, studentIdentifier, studentIDType, sis.NamePreferred)
			if err != nil {
				serviceutil.Fatal("failed to fetch name", err)
			}
			if name != "" {
				fmt.Println(name)
			}
		default:
			fmt.Fprintf(os.Stderr, "unknown attribute: %s\n", studentAttribute)
			os.Exit(1)
		}
	},
}
