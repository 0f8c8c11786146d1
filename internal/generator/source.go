package generator

import (
	"context"
	"errors"
)

// ErrEndOfSource is returned by QuerySource.Next once the source is
// drained.
var ErrEndOfSource = errors.New("end of query source")

// Query is one extracted query string and the variable it was bound to.
type Query struct {
	Name string
	Text string
}

// Module is the unit delivered by file discovery: one source file, the
// queries extracted from it, and any extraction errors encountered there.
type Module struct {
	Filename string
	Queries  []Query
	Errors   []error
}

// QuerySource is an asynchronous sequence of modules. Next blocks until a
// module is available, returns ErrEndOfSource when drained, or any other
// error when the source itself failed. A failing source does not discard
// modules that were already delivered.
type QuerySource interface {
	Next(ctx context.Context) (Module, error)
}

// SliceSource serves a fixed list of modules. Useful for tests and for
// callers that collected their queries up front.
type SliceSource struct {
	modules []Module
	pos     int
}

// NewSliceSource creates a source over modules in order.
func NewSliceSource(modules ...Module) *SliceSource {
	return &SliceSource{modules: modules}
}

// Next implements QuerySource.
func (s *SliceSource) Next(ctx context.Context) (Module, error) {
	if err := ctx.Err(); err != nil {
		return Module{}, err
	}
	if s.pos >= len(s.modules) {
		return Module{}, ErrEndOfSource
	}
	m := s.modules[s.pos]
	s.pos++
	return m, nil
}

// ChannelSource adapts a channel of modules, closing the sequence when the
// channel closes. Producers stream modules into it as scanning progresses.
type ChannelSource struct {
	ch <-chan Module
}

// NewChannelSource creates a source draining ch.
func NewChannelSource(ch <-chan Module) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next implements QuerySource.
func (s *ChannelSource) Next(ctx context.Context) (Module, error) {
	select {
	case <-ctx.Done():
		return Module{}, ctx.Err()
	case m, ok := <-s.ch:
		if !ok {
			return Module{}, ErrEndOfSource
		}
		return m, nil
	}
}
