// Package main implements the pdffill CLI: fill a government job-search
// log PDF from weekly YAML data, enriching incomplete contacts through an
// LLM lookup, with OpenTelemetry tracing and metrics around every stage.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/pdffill/internal/config"
	"github.com/fyrsmithlabs/pdffill/internal/enrich"
	"github.com/fyrsmithlabs/pdffill/internal/logging"
	"github.com/fyrsmithlabs/pdffill/internal/pdf"
	"github.com/fyrsmithlabs/pdffill/internal/pipeline"
	"github.com/fyrsmithlabs/pdffill/internal/telemetry"
)

var (
	// configFile overrides the default ~/.config/pdffill/config.yaml
	configFile string
	// mappingFile holds the field alias/checkbox mapping for the form revision
	mappingFile string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pdffill",
	Short: "Fill job-search log PDFs from YAML data",
	Long: `pdffill fills an AcroForm PDF (the weekly job-search log) from a YAML
data file. Contacts missing address, city, state, website or phone are
enriched through an LLM web lookup before filling.

Every run is traced and measured via OpenTelemetry; set
ENABLE_TELEMETRY=false when no collector is running.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/pdffill/config.yaml)")
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(fieldsCmd)
}

// fillCmd runs the full pipeline.
var fillCmd = &cobra.Command{
	Use:   "fill TEMPLATE.pdf DATA.yaml OUTPUT.pdf",
	Short: "Fill a PDF form from weekly YAML data",
	Long: `Fill a PDF form template from a weekly YAML data file and write the
result.

Examples:
  # Fill the weekly log
  pdffill fill esd-log.pdf week.yaml filled.pdf --map esd-log-fields.yaml

  # Run without a collector
  ENABLE_TELEMETRY=false pdffill fill esd-log.pdf week.yaml filled.pdf`,
	Args: cobra.ExactArgs(3),
	RunE: runFill,
}

// fieldsCmd lists the form's field names, for building a mapping file.
var fieldsCmd = &cobra.Command{
	Use:   "fields TEMPLATE.pdf",
	Short: "List the form field names of a PDF template",
	Args:  cobra.ExactArgs(1),
	RunE:  runFields,
}

func init() {
	fillCmd.Flags().StringVar(&mappingFile, "map", "", "field mapping file for the form revision")
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loader, err := config.Load(configFile)
	if err != nil {
		return err
	}

	tel := setupTelemetry(ctx, loader)
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", err)
		}
	}()

	logger, err := setupLogging(loader, tel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	enrCfg := enrich.NewDefaultConfig()
	if err := loader.Unmarshal("enrichment", enrCfg); err != nil {
		return err
	}
	svc, err := enrich.NewService(enrCfg)
	if err != nil {
		return err
	}
	lookup := enrich.WithTracing(svc, tel.Tracer(enrich.InstrumentationName))

	runner, err := pipeline.NewRunner(pipeline.Collaborators{Lookup: lookup}, tel, logger)
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx, pipeline.Request{
		TemplatePath: args[0],
		DataPath:     args[1],
		OutputPath:   args[2],
		MappingPath:  mappingFile,
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "done",
		zap.String("run_id", res.RunID),
		zap.Int("enriched", res.Enriched),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	fmt.Fprintln(cmd.OutOrStdout(), args[2])
	return nil
}

func runFields(cmd *cobra.Command, args []string) error {
	tmpl, err := pdf.Open(args[0])
	if err != nil {
		return err
	}
	for _, name := range tmpl.FieldNames() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

// setupTelemetry builds the telemetry stack. Failures never stop a run:
// a broken collector setup degrades to disabled telemetry with a warning.
func setupTelemetry(ctx context.Context, loader *config.Loader) *telemetry.Telemetry {
	cfg := telemetry.NewDefaultConfig()
	if err := loader.Unmarshal("telemetry", cfg); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry config: %v (telemetry disabled)\n", err)
		cfg = telemetry.NewDefaultConfig()
		cfg.Enabled = false
	}
	cfg.ApplyEnv()

	tel, err := telemetry.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry init: %v (telemetry disabled)\n", err)
		cfg.Enabled = false
		tel, _ = telemetry.New(ctx, cfg)
	}
	return tel
}

func setupLogging(loader *config.Loader, tel *telemetry.Telemetry) (*logging.Logger, error) {
	cfg := logging.NewDefaultConfig()
	if err := loader.Unmarshal("logging", cfg); err != nil {
		return nil, err
	}
	return logging.NewLogger(cfg, tel.LoggerProvider())
}
