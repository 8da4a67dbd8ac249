package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/event-roster-api/internal/config"
	"github.com/event-roster-api/internal/database"
	"github.com/event-roster-api/internal/mapping"
	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/parser"
	"github.com/event-roster-api/internal/repository"
	"github.com/event-roster-api/internal/service"
	"github.com/event-roster-api/internal/validation"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func newRootCmd(log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Manage event roster imports from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newImportCmd(log))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rosterctl %s (%s)\n", version, commit)
		},
	}
}

func newImportCmd(log zerolog.Logger) *cobra.Command {
	var (
		filePath    string
		mappingPath string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import attendees from a CSV or XLSX file",
		Long: `Parses the given roster file, maps its columns onto attendee fields,
validates every row and inserts the valid rows into the database.
With --dry-run the file is validated and the summary printed without
touching the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, log, filePath, mappingPath, dryRun)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the roster file (.csv or .xlsx)")
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "path to a YAML field-mapping file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only, do not write to the database")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(cmd *cobra.Command, log zerolog.Logger, filePath, mappingPath string, dryRun bool) error {
	records, err := parseRosterFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	var mappings []models.FieldMapping
	if mappingPath != "" {
		mappings, err = mapping.LoadMappingFile(mappingPath)
		if err != nil {
			return fmt.Errorf("failed to load mapping file: %w", err)
		}
	}

	users := mapping.MapFields(records, mappings)

	if dryRun {
		return printDryRun(cmd, users)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos := repository.New(db)
	services := service.NewServices(repos, cfg, log)

	ctx := context.Background()
	start := time.Now()
	result := services.Import.ImportUsers(ctx, users)
	run := services.Run.RecordRun(ctx, filepath.Base(filePath), models.RunSourceCLI, result, time.Since(start))

	log.Info().
		Str("run_id", run.ID).
		Int("total", result.TotalRows).
		Int("imported", result.SuccessfulImports).
		Int("failed", result.FailedImports).
		Msg("Import finished")

	return printJSON(cmd, result)
}

func parseRosterFile(path string) ([]models.RawRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parser.ParseWorkbook(f)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(string(data))
}

func printDryRun(cmd *cobra.Command, users []models.UserRecord) error {
	valid, errs := validation.Validate(users)
	preview := models.PreviewResult{
		TotalRows:  len(users),
		ValidCount: len(valid),
		ErrorCount: len(errs),
		Errors:     errs,
	}
	return printJSON(cmd, preview)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
