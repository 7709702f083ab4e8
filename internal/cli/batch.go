package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/dialectql"
	"github.com/zoobzio/dialectql/config"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	File string
}

// BatchOutput is the JSON form of one rendered batch.
type BatchOutput struct {
	SQL        string   `json:"sql"`
	Parameters []string `json:"parameters"`
	Mappings   []string `json:"mappings"`
	ResultSets int      `json:"result_sets"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render a YAML list of modification commands",
		Long: `Render INSERT, UPDATE and DELETE commands read from a YAML batch file.

Commands are split into batches by the configured command and parameter
limits. Consecutive inserts of the same shape are rendered together.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "batch file (YAML)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runBatch(opts *BatchOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	cmds, err := config.LoadBatch(opts.File)
	if err != nil {
		return err
	}

	sink := opts.sink(cmd.ErrOrStderr())
	batches, err := dialectql.CompileCommands(cfg.Generator(sink), cmds, cfg.MaxBatchSize, cfg.MaxParameters(), sink)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		out := make([]BatchOutput, 0, len(batches))
		for _, b := range batches {
			mappings := make([]string, 0, len(b.Mappings))
			for _, m := range b.Mappings {
				mappings = append(mappings, m.String())
			}
			out = append(out, BatchOutput{SQL: b.SQL, Parameters: b.Parameters, Mappings: mappings, ResultSets: b.ResultSets()})
		}
		return opts.writeJSON(w, out)
	}

	for i, b := range batches {
		if len(batches) > 1 {
			fmt.Fprintf(w, "-- batch %d of %d\n", i+1, len(batches))
		}
		fmt.Fprint(w, b.SQL)
	}
	return nil
}
