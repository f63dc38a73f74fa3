package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sisquery/lib/configutil"
	"sisquery/lib/restyutil"
	"sisquery/lib/serviceutil"
	"sisquery/lib/sis"
	"sisquery/lib/sis/classes"
	"sisquery/lib/sis/courses"
	"sisquery/lib/sis/enrollments"
	"sisquery/lib/sis/students"
	"sisquery/lib/sis/terms"

	"github.com/spf13/cobra"
)

var (
	credentialsFile string
	dumpHTTPDir     string
	verbose         bool
	debug           bool
)

var rootCmd = &cobra.Command{
	Use:   "sis-cli",
	Short: "sis-cli queries a university Student Information System REST API.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelInfo
		}
		if debug {
			level = slog.LevelDebug
		}
		telemetrySetup(cmd.Context(), level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&credentialsFile, "credentials", "f",
		defaultCredentialsFile(), "credentials file",
	)
	rootCmd.PersistentFlags().StringVar(
		&dumpHTTPDir, "dump-http", "",
		"write every http exchange to numbered files in this directory",
	)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set info log level")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "set debug log level")
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sis.json5"
	}
	return filepath.Join(home, ".sis.json5")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// clients bundles the per-sub-API query clients, each keyed with its
// own credential pair.
type clients struct {
	Terms       terms.Client
	Classes     classes.Client
	Enrollments enrollments.Client
	Students    students.Client
	Courses     courses.Client
}

func newClients() clients {
	creds, err := configutil.ReadConfig[sis.CredentialStore](credentialsFile)
	if err != nil {
		serviceutil.Fatal(fmt.Sprintf("failed to read credentials from %s", credentialsFile), err)
	}
	if err := creds.Validate(credentialsFile); err != nil {
		serviceutil.Fatal("invalid credentials file", err)
	}

	core := sis.NewClient(sis.ClientOptions{})
	if dumpHTTPDir != "" {
		if err := restyutil.DumpToDirectory(core.Http, dumpHTTPDir); err != nil {
			serviceutil.Fatal("failed to set up http dump directory", err)
		}
	}
	classesClient := classes.NewClient(core, creds.Classes)

	return clients{
		Terms:       terms.NewClient(core, creds.Terms),
		Classes:     classesClient,
		Enrollments: enrollments.NewClient(core, creds.Enrollments, classesClient),
		Students:    students.NewClient(core, creds.Students),
		Courses:     courses.NewClient(core, creds.Courses),
	}
}

// resolveTermID handles the -t/-y/-s term flags shared by several
// subcommands. An empty id with a nil error means there is no such term
// (e.g. between semesters); callers must stop quietly.
func resolveTermID(ctx context.Context, tc terms.Client, termFlag, year, semester string) (string, error) {
	if year != "" {
		return tc.GetTermIDForYearSemester(ctx, year, semester)
	}
	if termFlag != "" {
		return tc.Normalize(ctx, termFlag)
	}
	return tc.GetTermID(ctx, terms.Current)
}
