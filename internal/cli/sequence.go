package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SequenceOptions holds flags for the sequence command.
type SequenceOptions struct {
	*RootOptions
	Schema string
}

// NewSequenceCommand creates the sequence command.
func NewSequenceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SequenceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sequence [name]",
		Short: "Print the query that reserves the next hi-lo block",
		Long: `Print the query that reads the next value of a hi-lo sequence.

Without a name the sequence configured under hilo is used.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runSequence(opts, name, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "sequence schema")

	return cmd
}

func runSequence(opts *SequenceOptions, name string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	query := cfg.NextSequenceValueSQL(name, opts.Schema)

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return opts.writeJSON(w, map[string]any{"dialect": cfg.Dialect, "sql": query, "block_size": cfg.HiLo.BlockSize})
	}
	_, err = fmt.Fprintln(w, query)
	return err
}
