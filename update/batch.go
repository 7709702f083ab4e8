package update

import (
	"fmt"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/types"
)

// DefaultMaxCommands bounds a batch when no command limit is configured.
const DefaultMaxCommands = 42

// Batch is an ordered, bounded set of modification commands.
// It is built by a single goroutine and not safe for concurrent use.
type Batch struct {
	commands      []*types.ModificationCommand
	parameters    int
	MaxCommands   int
	MaxParameters int
}

// NewBatch creates a batch. Non-positive limits select DefaultMaxCommands
// and no parameter limit respectively.
func NewBatch(maxCommands, maxParameters int) *Batch {
	if maxCommands <= 0 {
		maxCommands = DefaultMaxCommands
	}
	return &Batch{MaxCommands: maxCommands, MaxParameters: maxParameters}
}

// TryAdd appends cmd if the batch has room for it and its parameters.
// A rejected command leaves the batch unchanged.
func (b *Batch) TryAdd(cmd *types.ModificationCommand) bool {
	if len(b.commands) >= b.MaxCommands {
		return false
	}
	n := cmd.ParameterCount()
	if b.MaxParameters > 0 && b.parameters+n > b.MaxParameters {
		return false
	}
	b.commands = append(b.commands, cmd)
	b.parameters += n
	return true
}

// Len returns the number of commands.
func (b *Batch) Len() int {
	return len(b.commands)
}

// ParameterCount returns the parameters bound by all commands.
func (b *Batch) ParameterCount() int {
	return b.parameters
}

// Commands returns the commands in order.
func (b *Batch) Commands() []*types.ModificationCommand {
	return append([]*types.ModificationCommand(nil), b.commands...)
}

// Compiled is the rendered batch.
type Compiled struct {
	SQL string
	// Mappings has one entry per command, in command order.
	Mappings   []types.ResultSetMapping
	Parameters []string
}

// ResultSets counts the result sets a caller must consume.
func (c *Compiled) ResultSets() int {
	n := 0
	for _, m := range c.Mappings {
		if m == types.LastInResultSet {
			n++
		}
	}
	return n
}

// Compile renders the batch. Consecutive inserts into the same table with
// the same column shape are rendered as one bulk insert.
func (b *Batch) Compile(gen Generator) (*Compiled, error) {
	s := NewScript()
	mappings := make([]types.ResultSetMapping, 0, len(b.commands))

	for i := 0; i < len(b.commands); {
		cmd := b.commands[i]
		if cmd.State == types.Added {
			j := i + 1
			for j < len(b.commands) && b.commands[j].State == types.Added && cmd.SameShape(b.commands[j]) {
				j++
			}
			if j-i > 1 {
				m, err := gen.AppendBulkInsert(s, b.commands[i:j], i)
				if err != nil {
					return nil, fmt.Errorf("command %d: %w", i, err)
				}
				mappings = append(mappings, expandBulk(m, j-i)...)
				i = j
				continue
			}
		}

		var (
			m   types.ResultSetMapping
			err error
		)
		switch cmd.State {
		case types.Added:
			m, err = gen.AppendInsert(s, cmd, i)
		case types.Modified:
			m, err = gen.AppendUpdate(s, cmd, i)
		case types.Deleted:
			m, err = gen.AppendDelete(s, cmd, i)
		default:
			err = fmt.Errorf("unsupported entity state %s", cmd.State)
		}
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		mappings = append(mappings, m)
		i++
	}

	return &Compiled{SQL: gen.Finish(s), Mappings: mappings, Parameters: s.Parameters()}, nil
}

// expandBulk spreads a bulk insert's mapping over its commands.
func expandBulk(m types.ResultSetMapping, n int) []types.ResultSetMapping {
	out := make([]types.ResultSetMapping, n)
	for i := range out {
		switch m {
		case types.NotLastInResultSet:
			out[i] = types.NotLastInResultSet
			if i == n-1 {
				out[i] = types.LastInResultSet
			}
		default:
			out[i] = m
		}
	}
	return out
}

// Split distributes commands over as many batches as their limits require.
// Each additional batch is reported to sink as a BatchSplit event.
func Split(cmds []*types.ModificationCommand, maxCommands, maxParameters int, sink diag.Sink) ([]*Batch, error) {
	sink = diag.OrNop(sink)
	var batches []*Batch
	current := NewBatch(maxCommands, maxParameters)
	for i, cmd := range cmds {
		if current.TryAdd(cmd) {
			continue
		}
		if current.Len() == 0 {
			return nil, fmt.Errorf("command %d on %s binds %d parameters, more than a batch allows (%d)",
				i, cmd.Table, cmd.ParameterCount(), maxParameters)
		}
		batches = append(batches, current)
		sink.Emit(diag.New(diag.Debug, diag.BatchSplit, "starting new command batch",
			"batch", len(batches), "command", i, "commands", current.Len(), "parameters", current.ParameterCount()))
		current = NewBatch(maxCommands, maxParameters)
		if !current.TryAdd(cmd) {
			return nil, fmt.Errorf("command %d on %s binds %d parameters, more than a batch allows (%d)",
				i, cmd.Table, cmd.ParameterCount(), maxParameters)
		}
	}
	if current.Len() > 0 {
		batches = append(batches, current)
	}
	return batches, nil
}
