// Package hilo generates key values from blocks reserved through a store
// sequence, so one round trip serves a whole block of inserts.
package hilo

import (
	"context"
	"errors"
	"fmt"

	"github.com/zoobzio/dialectql/diag"
)

// DefaultBlockSize matches the increment of the default hi-lo sequence.
const DefaultBlockSize = 10

// ErrOverflow is returned when a generated value does not fit the key type.
var ErrOverflow = errors.New("hi-lo value overflows key type")

// Source returns the low value of a newly reserved block.
type Source interface {
	NextBlock(ctx context.Context) (int64, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) (int64, error)

// NextBlock calls f(ctx).
func (f SourceFunc) NextBlock(ctx context.Context) (int64, error) { return f(ctx) }

// State is the shared block allocator for one sequence.
// Access is serialized through a one-slot semaphore, so a caller waiting
// for a block fetch can give up when its context ends. A failed or
// cancelled fetch leaves the state as it was.
type State struct {
	slot      chan struct{}
	sink      diag.Sink
	name      string
	blockSize int64
	current   int64
	high      int64
}

// NewState creates an allocator handing out blocks of blockSize values.
func NewState(name string, blockSize int, sink diag.Sink) *State {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &State{
		slot:      make(chan struct{}, 1),
		sink:      diag.OrNop(sink),
		name:      name,
		blockSize: int64(blockSize),
	}
}

// BlockSize returns the number of values per block.
func (s *State) BlockSize() int {
	return int(s.blockSize)
}

// Next returns the next value, fetching a new block from src when the
// current one is used up.
func (s *State) Next(ctx context.Context, src Source) (int64, error) {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	defer func() { <-s.slot }()

	if s.current >= s.high {
		low, err := src.NextBlock(ctx)
		if err != nil {
			return 0, fmt.Errorf("hi-lo %s: fetch block: %w", s.name, err)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.current, s.high = low, low+s.blockSize
		s.sink.Emit(diag.New(diag.Debug, diag.HiLoBlockAllocated, "reserved hi-lo block",
			"sequence", s.name, "low", low, "high", s.high))
	}
	v := s.current
	s.current++
	return v, nil
}

// Integer is the set of key types a Generator can produce.
type Integer interface {
	~int16 | ~int32 | ~int64
}

// Generator produces typed key values from a shared State.
type Generator[T Integer] struct {
	state  *State
	source Source
}

// NewGenerator creates a generator drawing from state and source.
func NewGenerator[T Integer](state *State, source Source) *Generator[T] {
	return &Generator[T]{state: state, source: source}
}

// Next returns the next value. It waits for a block fetch if one is
// needed and returns early when ctx ends.
func (g *Generator[T]) Next(ctx context.Context) (T, error) {
	v, err := g.state.Next(ctx, g.source)
	if err != nil {
		return 0, err
	}
	t := T(v)
	if int64(t) != v {
		return 0, fmt.Errorf("%w: %d", ErrOverflow, v)
	}
	return t, nil
}

// MustNext blocks until a value is available and panics on failure.
func (g *Generator[T]) MustNext() T {
	v, err := g.Next(context.Background())
	if err != nil {
		panic(err)
	}
	return v
}
