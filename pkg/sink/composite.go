package sink

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	"github.com/hashicorp/go-multierror"
)

// CompositeSink fans every call out to its children in order. Every child is
// called even when an earlier one fails.
type CompositeSink struct {
	children []LogSink
}

// NewCompositeSink skips nil children.
func NewCompositeSink(children ...LogSink) *CompositeSink {
	c := &CompositeSink{}
	for _, child := range children {
		if child != nil {
			c.children = append(c.children, child)
		}
	}
	return c
}

// Len is the number of children.
func (c *CompositeSink) Len() int { return len(c.children) }

func (c *CompositeSink) WriteDifferential(ctx context.Context, payload string) error {
	return c.each(func(s LogSink) error { return s.WriteDifferential(ctx, payload) })
}

func (c *CompositeSink) WriteSnapshot(ctx context.Context, payload string) error {
	return c.each(func(s LogSink) error { return s.WriteSnapshot(ctx, payload) })
}

func (c *CompositeSink) WriteStatus(ctx context.Context, entries []entry.LogEntry) error {
	return c.each(func(s LogSink) error { return s.WriteStatus(ctx, entries) })
}

// each returns a lone failure unwrapped so callers see the child's own error.
func (c *CompositeSink) each(fn func(LogSink) error) error {
	var result *multierror.Error
	for _, child := range c.children {
		if err := fn(child); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil && len(result.Errors) == 1 {
		return result.Errors[0]
	}
	return result.ErrorOrNil()
}
