package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docmapper/internal/config"
	"docmapper/internal/logging"
	"docmapper/metadata"
)

// app holds what every subcommand shares once the root pre-run has loaded
// the configuration.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg config.Config
	log *zap.Logger
}

// metadataFile loads the configured metadata file, or returns nil when none
// is configured.
func (a *app) metadataFile() (*metadata.File, error) {
	if a.cfg.Metadata == "" {
		return nil, nil
	}

	return metadata.LoadFile(a.cfg.Metadata)
}

// NewRootCommand returns the docmapper command tree. Settings come from the
// DOCMAPPER_* environment, flags win over it.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, log: zap.NewNop()}

	var flags config.Config

	rc := &cobra.Command{
		Use:   "docmapper",
		Short: "docmapper maps entity contracts to documents.",
		Long: `docmapper maps entity contracts, Go interfaces following the
Get/Set/Add accessor convention, to stored documents.

Settings are read from DOCMAPPER_STORE, DOCMAPPER_STORE_PATH,
DOCMAPPER_METADATA, DOCMAPPER_LOG_LEVEL and DOCMAPPER_LOG_FORMAT;
flags take precedence.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if err := config.ParseEnv(&cfg); err != nil {
				return err
			}

			pf := cmd.Flags()
			if pf.Changed("store") {
				cfg.Store = flags.Store
			}

			if pf.Changed("store-path") {
				cfg.StorePath = flags.StorePath
			}

			if pf.Changed("metadata") {
				cfg.Metadata = flags.Metadata
			}

			if pf.Changed("log-level") {
				cfg.LogLevel = flags.LogLevel
			}

			if pf.Changed("log-format") {
				cfg.LogFormat = flags.LogFormat
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			a.cfg, a.log = cfg, log

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	pf := rc.PersistentFlags()
	pf.StringVar(&flags.Store, "store", config.StoreMemory, "document store: memory, bolt or sqlite")
	pf.StringVar(&flags.StorePath, "store-path", "docmapper.db", "database file of the bolt and sqlite stores")
	pf.StringVarP(&flags.Metadata, "metadata", "m", "", "YAML metadata file")
	pf.StringVar(&flags.LogLevel, "log-level", "info", "log level")
	pf.StringVar(&flags.LogFormat, "log-format", "console", "log format: console or json")

	rc.AddCommand(newLintCommand(a))
	rc.AddCommand(newGenCommand(a))
	rc.AddCommand(newMetaCommand(a))
	rc.AddCommand(newDocCommand(a))

	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)

	return rc
}
