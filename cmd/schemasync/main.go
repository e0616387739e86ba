package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tordrt/schemasync"
	"github.com/tordrt/schemasync/internal/migrate"
)

const databaseURLEnv = "SCHEMASYNC_DATABASE_URL"

var errPending = errors.New("schema is out of date")

var (
	modelPath     string
	dbURL         string
	mysqlURL      string
	sqlitePath    string
	outputFile    string
	outputDir     string
	tables        string
	excludeTables string
	schemaName    string
	format        string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "schemasync",
	Short: "Keep a MySQL schema in step with a class model",
	Long: `SchemaSync maps the classes of a YAML model to MySQL tables, compares them with a live
database and prints the CREATE TABLE and ALTER TABLE statements needed to bring it up to date.`,
	SilenceUsage: true,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the DDL bringing the database up to date",
	RunE:  runPlan,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report drift and exit non-zero when statements are pending",
	RunE:  runCheck,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&modelPath, "model", "m", "model.yaml", "Model file")
	flags.StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	flags.StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	flags.StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	flags.StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, % and _ wildcards allowed, \\_ for a literal _)")
	flags.StringVarP(&excludeTables, "exclude", "x", "", "Tables to leave alone (comma-separated)")
	flags.StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: from URL for MySQL, public for PostgreSQL)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log planning details to stderr")

	planCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	planCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for one file per statement")
	planCmd.Flags().StringVarP(&format, "format", "f", "sql", "Output format: sql or markdown")

	rootCmd.AddCommand(planCmd, checkCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	plan, err := buildPlan(cmd.Context())
	if err != nil {
		return err
	}

	out := &schemasync.OutputOptions{Writer: cmd.OutOrStdout(), OutputDir: outputDir, Format: format}
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		out.Writer = f
	}

	if err := schemasync.FormatPlan(plan, out); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	plan, err := buildPlan(cmd.Context())
	if err != nil {
		return err
	}
	return reportCheck(cmd.OutOrStdout(), plan)
}

func reportCheck(w io.Writer, plan *migrate.Plan) error {
	_, _ = fmt.Fprintln(w, plan.Report.String())
	if plan.Report.HasErrors() {
		return fmt.Errorf("model has %d error(s)", len(plan.Report.Errors))
	}
	if !plan.Empty() {
		for _, t := range plan.Tables() {
			_, _ = fmt.Fprintf(w, "pending: %s\n", t)
		}
		return fmt.Errorf("%w: %d statement(s) pending", errPending, len(plan.Statements))
	}
	return nil
}

func buildPlan(ctx context.Context) (*migrate.Plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// A missing .env file is fine
	_ = godotenv.Load()

	url, err := databaseURL()
	if err != nil {
		return nil, err
	}

	opts := &schemasync.Options{
		Tables:        parseTableList(tables),
		ExcludeTables: parseTableList(excludeTables),
		SchemaName:    schemaName,
		Logger:        newLogger(verbose),
	}

	model, err := schemasync.LoadModel(modelPath)
	if err != nil {
		return nil, err
	}

	if url == "" {
		opts.Logger.Info("no database given, planning a fresh install")
	}
	return schemasync.Sync(ctx, url, model, opts)
}

// databaseURL returns the URL selected by the database flags, falling back
// to the environment. "" means no database.
func databaseURL() (string, error) {
	var urls []string
	if mysqlURL != "" {
		urls = append(urls, "mysql://"+strings.TrimPrefix(mysqlURL, "mysql://"))
	}
	if dbURL != "" {
		urls = append(urls, dbURL)
	}
	if sqlitePath != "" {
		urls = append(urls, "sqlite://"+strings.TrimPrefix(sqlitePath, "sqlite://"))
	}
	switch len(urls) {
	case 0:
		return os.Getenv(databaseURLEnv), nil
	case 1:
		return urls[0], nil
	default:
		return "", fmt.Errorf("only one of --mysql-url, --db-url, or --sqlite can be specified")
	}
}

func parseTableList(list string) []string {
	if list == "" {
		return nil
	}
	var names []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			names = append(names, t)
		}
	}
	return names
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
