// Package config loads the YAML document that selects and tunes a dialect.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/dialectql"
	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/hilo"
	"github.com/zoobzio/dialectql/mssql"
	"github.com/zoobzio/dialectql/oracle"
	"github.com/zoobzio/dialectql/typemap"
	"github.com/zoobzio/dialectql/update"
)

// Config selects a dialect and its limits.
type Config struct {
	// Dialect is "mssql" or "oracle".
	Dialect string `yaml:"dialect"`

	// MaxBatchSize caps the commands placed in one batch.
	MaxBatchSize int `yaml:"max_batch_size"`

	MSSQL  MSSQL  `yaml:"mssql"`
	Oracle Oracle `yaml:"oracle"`
	HiLo   HiLo   `yaml:"hilo"`
}

// MSSQL tunes the SQL Server dialect.
type MSSQL struct {
	// RowNumberPaging renders OFFSET through ROW_NUMBER() for servers
	// without OFFSET/FETCH.
	RowNumberPaging bool `yaml:"row_number_paging"`
	MaxParameters   int  `yaml:"max_parameters"`
}

// Oracle tunes the Oracle dialect.
type Oracle struct {
	// QuoteReservedOnly leaves plain upper-case-safe identifiers unquoted.
	QuoteReservedOnly bool `yaml:"quote_reserved_only"`
	MaxParameters     int  `yaml:"max_parameters"`
}

// HiLo configures hi-lo key generation.
type HiLo struct {
	BlockSize int    `yaml:"block_size"`
	Sequence  string `yaml:"sequence"`
	Schema    string `yaml:"schema"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Dialect:      mssql.Name,
		MaxBatchSize: update.DefaultMaxCommands,
		MSSQL: MSSQL{
			RowNumberPaging: true,
			MaxParameters:   mssql.DefaultMaxParameters,
		},
		Oracle: Oracle{
			MaxParameters: oracle.DefaultMaxParameters,
		},
		HiLo: HiLo{
			BlockSize: hilo.DefaultBlockSize,
			Sequence:  mssql.DefaultHiLoSequenceName,
		},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a configuration document over the defaults. Unknown
// fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, reporting every problem found.
func (c *Config) Validate() error {
	var errs []error
	switch c.Dialect {
	case mssql.Name, oracle.Name:
	default:
		errs = append(errs, fmt.Errorf("dialect must be %q or %q, got %q", mssql.Name, oracle.Name, c.Dialect))
	}
	if c.MaxBatchSize < 1 {
		errs = append(errs, fmt.Errorf("max_batch_size must be positive, got %d", c.MaxBatchSize))
	}
	if c.MSSQL.MaxParameters < 1 || c.MSSQL.MaxParameters > mssql.DefaultMaxParameters {
		errs = append(errs, fmt.Errorf("mssql.max_parameters must be between 1 and %d, got %d",
			mssql.DefaultMaxParameters, c.MSSQL.MaxParameters))
	}
	if c.Oracle.MaxParameters < 1 {
		errs = append(errs, fmt.Errorf("oracle.max_parameters must be positive, got %d", c.Oracle.MaxParameters))
	}
	if c.HiLo.BlockSize < 1 {
		errs = append(errs, fmt.Errorf("hilo.block_size must be positive, got %d", c.HiLo.BlockSize))
	}
	if c.HiLo.Sequence == "" {
		errs = append(errs, errors.New("hilo.sequence is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// MaxParameters returns the parameter limit of the selected dialect.
func (c *Config) MaxParameters() int {
	if c.Dialect == oracle.Name {
		return c.Oracle.MaxParameters
	}
	return c.MSSQL.MaxParameters
}

// Renderer returns the query renderer of the selected dialect.
func (c *Config) Renderer(sink diag.Sink) dialectql.Renderer {
	if c.Dialect == oracle.Name {
		return oracle.New(c.oracleOptions(sink)...)
	}
	return mssql.New(c.mssqlOptions(sink)...)
}

// Generator returns the modification command generator of the selected
// dialect.
func (c *Config) Generator(sink diag.Sink) dialectql.Generator {
	if c.Dialect == oracle.Name {
		return oracle.NewGenerator(c.oracleOptions(sink)...)
	}
	return mssql.NewGenerator(c.mssqlOptions(sink)...)
}

// TypeMapper returns the type mapper of the selected dialect.
func (c *Config) TypeMapper(sink diag.Sink) *typemap.Registry {
	if c.Dialect == oracle.Name {
		return oracle.NewTypeMapper(sink)
	}
	return mssql.NewTypeMapper(sink)
}

// NextSequenceValueSQL returns the query reading the next block of the
// configured hi-lo sequence, or of name when it is not empty.
func (c *Config) NextSequenceValueSQL(name, schema string) string {
	if name == "" {
		name, schema = c.HiLo.Sequence, c.HiLo.Schema
	}
	if c.Dialect == oracle.Name {
		return oracle.NextSequenceValueSQL(name, schema)
	}
	return mssql.NextSequenceValueSQL(name, schema)
}

// HiLoCache returns a state cache using the configured block size.
func (c *Config) HiLoCache(sink diag.Sink) *hilo.Cache {
	return hilo.NewCache(c.HiLo.BlockSize, sink)
}

func (c *Config) mssqlOptions(sink diag.Sink) []mssql.Option {
	return []mssql.Option{
		mssql.WithRowNumberPaging(c.MSSQL.RowNumberPaging),
		mssql.WithMaxParameters(c.MSSQL.MaxParameters),
		mssql.WithSink(sink),
	}
}

func (c *Config) oracleOptions(sink diag.Sink) []oracle.Option {
	return []oracle.Option{
		oracle.WithQuoteReservedOnly(c.Oracle.QuoteReservedOnly),
		oracle.WithMaxParameters(c.Oracle.MaxParameters),
		oracle.WithSink(sink),
	}
}
