// Package cli implements the dialectql command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zoobzio/dialectql/config"
	"github.com/zoobzio/dialectql/diag"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Dialect    string
	Format     string // "json" | "text"
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the dialectql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dialectql",
		Short: "Render SQL Server and Oracle SQL",
		Long: `Render modification batches, type mappings and hi-lo sequence queries
for SQL Server and Oracle.

The dialect and its limits come from a YAML configuration file (--config)
and can be overridden with --dialect.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (YAML)")
	cmd.PersistentFlags().StringVarP(&opts.Dialect, "dialect", "d", "", "dialect override (mssql|oracle)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewTypeMapCommand(opts))
	cmd.AddCommand(NewSequenceCommand(opts))

	return cmd
}

// loadConfig reads the configured file, or the defaults, and applies the
// dialect override.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return nil, err
		}
	}
	if o.Dialect != "" {
		cfg.Dialect = o.Dialect
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// sink returns a zap-backed diagnostics sink writing to w when verbose
// output is on.
func (o *RootOptions) sink(w io.Writer) diag.Sink {
	if !o.Verbose {
		return diag.Nop
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return diag.NewZap(zap.New(core))
}

func (o *RootOptions) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
