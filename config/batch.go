package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/dialectql/annotations"
	"github.com/zoobzio/dialectql/internal/types"
)

// Batch is a YAML list of modification commands:
//
//	commands:
//	  - table: Ducks
//	    state: added
//	    columns:
//	      - {name: Id, kind: int32, key: true, read: true}
//	      - {name: Name, kind: string, param: p0, value: Donald, write: true}
type Batch struct {
	Commands []Command `yaml:"commands"`
}

// Command is one row modification.
type Command struct {
	Table       string         `yaml:"table"`
	Schema      string         `yaml:"schema,omitempty"`
	State       string         `yaml:"state"`
	Annotations map[string]any `yaml:"annotations,omitempty"`
	Columns     []Column       `yaml:"columns"`
}

// Column is one column modification.
type Column struct {
	Name             string         `yaml:"name"`
	Kind             string         `yaml:"kind"`
	Param            string         `yaml:"param,omitempty"`
	Value            any            `yaml:"value,omitempty"`
	OriginalParam    string         `yaml:"original_param,omitempty"`
	OriginalValue    any            `yaml:"original_value,omitempty"`
	Read             bool           `yaml:"read,omitempty"`
	Write            bool           `yaml:"write,omitempty"`
	Key              bool           `yaml:"key,omitempty"`
	Condition        bool           `yaml:"condition,omitempty"`
	ConcurrencyToken bool           `yaml:"concurrency_token,omitempty"`
	Annotations      map[string]any `yaml:"annotations,omitempty"`
}

// LoadBatch reads a batch file and converts it to commands.
func LoadBatch(path string) ([]*types.ModificationCommand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(data)
}

// ParseBatch decodes a batch document and converts it to commands.
func ParseBatch(data []byte) ([]*types.ModificationCommand, error) {
	var b Batch
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(b.Commands) == 0 {
		return nil, fmt.Errorf("%w: commands list is required and must be non-empty", ErrInvalid)
	}

	cmds := make([]*types.ModificationCommand, 0, len(b.Commands))
	for i, c := range b.Commands {
		cmd, err := c.command()
		if err != nil {
			return nil, fmt.Errorf("%w: commands[%d]: %w", ErrInvalid, i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (c Command) command() (*types.ModificationCommand, error) {
	if c.Table == "" {
		return nil, errors.New("table is required")
	}
	var state types.EntityState
	switch c.State {
	case "added", "insert":
		state = types.Added
	case "modified", "update":
		state = types.Modified
	case "deleted", "delete":
		state = types.Deleted
	default:
		return nil, fmt.Errorf("state must be added, modified or deleted, got %q", c.State)
	}
	if len(c.Columns) == 0 {
		return nil, errors.New("columns list is required and must be non-empty")
	}

	cmd := &types.ModificationCommand{
		Table:       c.Table,
		Schema:      c.Schema,
		State:       state,
		Annotations: store(c.Annotations),
	}
	for j, col := range c.Columns {
		m, err := col.modification()
		if err != nil {
			return nil, fmt.Errorf("columns[%d]: %w", j, err)
		}
		cmd.Columns = append(cmd.Columns, m)
	}
	return cmd, nil
}

func (c Column) modification() (types.ColumnModification, error) {
	if c.Name == "" {
		return types.ColumnModification{}, errors.New("name is required")
	}
	kind := types.KindUnknown
	if c.Kind != "" {
		k, ok := types.ParseKind(c.Kind)
		if !ok {
			return types.ColumnModification{}, fmt.Errorf("unknown kind %q", c.Kind)
		}
		kind = k
	}
	// A read-back key is generated by the store and binds nothing.
	if (c.Write || c.Condition || (c.Key && !c.Read)) && c.Param == "" {
		return types.ColumnModification{}, fmt.Errorf("column %s binds a value and needs a param", c.Name)
	}
	m := types.ColumnModification{
		ColumnName:            c.Name,
		Kind:                  kind,
		ParameterName:         c.Param,
		Value:                 c.Value,
		OriginalParameterName: c.OriginalParam,
		OriginalValue:         c.OriginalValue,
		IsRead:                c.Read,
		IsWrite:               c.Write,
		IsKey:                 c.Key,
		IsCondition:           c.Condition,
		IsConcurrencyToken:    c.ConcurrencyToken,
		Annotations:           store(c.Annotations),
	}
	// Only a concurrency token may match NULL; a key without a value would
	// render IS NULL and match nothing.
	if (c.Key || c.Condition) && c.Param != "" && !c.ConcurrencyToken && m.ConditionValue() == nil {
		return types.ColumnModification{}, fmt.Errorf("column %s matches on %s but has no value", c.Name, c.Param)
	}
	return m, nil
}

func store(m map[string]any) *annotations.Store {
	if len(m) == 0 {
		return nil
	}
	s := annotations.New()
	for k, v := range m {
		s.Set(k, v)
	}
	return s
}
