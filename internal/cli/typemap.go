package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spf13/cobra"

	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

// TypeMapOptions holds flags for the typemap command.
type TypeMapOptions struct {
	*RootOptions
	MaxLength int
	Precision int
	Scale     int
	ANSI      bool
	Fixed     bool
	Key       bool
	RowVer    bool
	Literal   string
}

// TypeMapOutput is the JSON form of a resolved mapping.
type TypeMapOutput struct {
	StoreType string `json:"store_type"`
	Kind      string `json:"kind"`
	Size      int    `json:"size,omitempty"`
	Precision int    `json:"precision,omitempty"`
	Scale     int    `json:"scale,omitempty"`
	Unicode   bool   `json:"unicode"`
	Literal   string `json:"literal,omitempty"`
}

// NewTypeMapCommand creates the typemap command.
func NewTypeMapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TypeMapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "typemap <kind|store-type>",
		Short: "Resolve a value kind or store type name",
		Long: `Resolve the store type mapping of a value kind (for example string or
decimal) or parse a store type name (for example "nvarchar(50)").

Column facets such as --max-length and --precision refine kind lookups.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypeMap(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxLength, "max-length", 0, "maximum length of text or binary columns")
	cmd.Flags().IntVar(&opts.Precision, "precision", 0, "numeric precision")
	cmd.Flags().IntVar(&opts.Scale, "scale", 0, "numeric scale")
	cmd.Flags().BoolVar(&opts.ANSI, "ansi", false, "non-unicode text")
	cmd.Flags().BoolVar(&opts.Fixed, "fixed", false, "fixed-length text or binary")
	cmd.Flags().BoolVar(&opts.Key, "key", false, "column is part of a key or index")
	cmd.Flags().BoolVar(&opts.RowVer, "rowversion", false, "column is a row version")
	cmd.Flags().StringVar(&opts.Literal, "literal", "", "render this value as a literal of the mapping")

	return cmd
}

func (o *TypeMapOptions) column(cmd *cobra.Command) typemap.Column {
	c := typemap.Column{IsKey: o.Key, IsRowVersion: o.RowVer}
	flags := cmd.Flags()
	if flags.Changed("max-length") {
		c.MaxLength = typemap.Ptr(o.MaxLength)
	}
	if flags.Changed("precision") {
		c.Precision = typemap.Ptr(o.Precision)
	}
	if flags.Changed("scale") {
		c.Scale = typemap.Ptr(o.Scale)
	}
	if o.ANSI {
		c.Unicode = typemap.Ptr(false)
	}
	if o.Fixed {
		c.FixedLength = typemap.Ptr(true)
	}
	return c
}

func runTypeMap(opts *TypeMapOptions, name string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	sink := opts.sink(cmd.ErrOrStderr())
	tm := cfg.TypeMapper(sink)

	col := opts.column(cmd)
	var m typemap.Mapping
	if kind, ok := types.ParseKind(name); ok {
		col.Kind = kind
		m, err = tm.FindMapping(col)
	} else {
		m, err = tm.FindByStoreType(name, col)
	}
	if err != nil {
		return err
	}

	out := TypeMapOutput{
		StoreType: m.StoreType,
		Kind:      m.Kind.String(),
		Size:      m.Size,
		Precision: m.Precision,
		Scale:     m.Scale,
		Unicode:   m.Unicode,
	}
	if cmd.Flags().Changed("literal") {
		v, err := parseValue(m.Kind, opts.Literal)
		if err != nil {
			return fmt.Errorf("literal: %w", err)
		}
		if out.Literal, err = m.Literal(v); err != nil {
			return fmt.Errorf("literal: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return opts.writeJSON(w, out)
	}
	fmt.Fprintf(w, "%s (%s)\n", out.StoreType, out.Kind)
	if out.Literal != "" {
		fmt.Fprintln(w, out.Literal)
	}
	return nil
}

// parseValue converts command line text to the Go value a literal of
// kind expects.
func parseValue(kind types.Kind, s string) (any, error) {
	switch {
	case kind == types.KindBool:
		return strconv.ParseBool(s)
	case kind.IsInteger():
		return strconv.ParseInt(s, 10, 64)
	case kind == types.KindSingle, kind == types.KindDouble:
		return strconv.ParseFloat(s, 64)
	case kind == types.KindDecimal:
		return decimal.NewFromString(s)
	case kind == types.KindGuid:
		return uuid.Parse(s)
	case kind == types.KindBytes:
		return hex.DecodeString(s)
	case kind == types.KindDateTime, kind == types.KindDateTimeOffset:
		return time.Parse(time.RFC3339Nano, s)
	case kind == types.KindTimeSpan:
		return time.ParseDuration(s)
	}
	return s, nil
}
