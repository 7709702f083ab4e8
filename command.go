package dialectql

import (
	"fmt"

	"github.com/zoobzio/dialectql/annotations"
	"github.com/zoobzio/dialectql/internal/types"
)

// CommandBuilder provides a fluent API for constructing modification
// commands.
type CommandBuilder struct {
	cmd *types.ModificationCommand
	err error
}

// Insert creates a builder for a row insert.
func Insert(t Table) *CommandBuilder {
	return newCommand(t, types.Added)
}

// Update creates a builder for a row update.
func Update(t Table) *CommandBuilder {
	return newCommand(t, types.Modified)
}

// Delete creates a builder for a row delete.
func Delete(t Table) *CommandBuilder {
	return newCommand(t, types.Deleted)
}

func newCommand(t Table, state EntityState) *CommandBuilder {
	return &CommandBuilder{cmd: &types.ModificationCommand{Table: t.Name, Schema: t.Schema, State: state}}
}

// Annotate sets a table-level annotation.
func (b *CommandBuilder) Annotate(key string, value any) *CommandBuilder {
	if b.err != nil {
		return b
	}
	if b.cmd.Annotations == nil {
		b.cmd.Annotations = annotations.New()
	}
	b.cmd.Annotations.Set(key, value)
	return b
}

// Write supplies a column value bound to param.
func (b *CommandBuilder) Write(column string, param Parameter, value any) *CommandBuilder {
	return b.add(types.ColumnModification{
		ColumnName: column, Kind: param.Kind, ParameterName: param.Name, Value: value, IsWrite: true,
	})
}

// Read reads a store-generated column back after the command runs.
func (b *CommandBuilder) Read(column string, kind Kind) *CommandBuilder {
	return b.add(types.ColumnModification{ColumnName: column, Kind: kind, IsRead: true})
}

// Key identifies the row by column = param.
func (b *CommandBuilder) Key(column string, param Parameter, value any) *CommandBuilder {
	return b.add(types.ColumnModification{
		ColumnName: column, Kind: param.Kind, ParameterName: param.Name, Value: value, IsKey: true,
	})
}

// GeneratedKey declares a key the store generates on insert, such as an
// identity column. It is read back.
func (b *CommandBuilder) GeneratedKey(column string, kind Kind) *CommandBuilder {
	return b.add(types.ColumnModification{ColumnName: column, Kind: kind, IsKey: true, IsRead: true})
}

// ConcurrencyToken guards the command with column = original. A nil
// original renders IS NULL.
func (b *CommandBuilder) ConcurrencyToken(column string, original Parameter, value any) *CommandBuilder {
	return b.add(types.ColumnModification{
		ColumnName: column, Kind: original.Kind,
		ParameterName: original.Name, Value: value,
		OriginalParameterName: original.Name, OriginalValue: value,
		IsCondition: true, IsConcurrencyToken: true,
	})
}

// Column adds a fully specified column modification.
func (b *CommandBuilder) Column(c ColumnModification) *CommandBuilder {
	return b.add(c)
}

func (b *CommandBuilder) add(c types.ColumnModification) *CommandBuilder {
	if b.err != nil {
		return b
	}
	if !isValidSQLIdentifier(c.ColumnName) {
		b.err = fmt.Errorf("invalid column name '%s'", c.ColumnName)
		return b
	}
	for _, existing := range b.cmd.Columns {
		if existing.ColumnName == c.ColumnName {
			b.err = fmt.Errorf("column %s is modified twice", c.ColumnName)
			return b
		}
	}
	b.cmd.Columns = append(b.cmd.Columns, c)
	return b
}

// Build returns the command.
func (b *CommandBuilder) Build() (*ModificationCommand, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch b.cmd.State {
	case types.Modified:
		if len(b.cmd.WriteColumns()) == 0 {
			return nil, fmt.Errorf("update of %s writes no columns", b.cmd.Table)
		}
		fallthrough
	case types.Deleted:
		if len(b.cmd.ConditionColumns()) == 0 {
			return nil, fmt.Errorf("%s of %s has no key or condition", b.cmd.State, b.cmd.Table)
		}
	}
	return b.cmd, nil
}

// MustBuild returns the command or panics on error.
func (b *CommandBuilder) MustBuild() *ModificationCommand {
	cmd, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cmd
}
