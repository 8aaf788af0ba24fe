// Package output holds the rendering substrates a view tree is handed to.
package output

import (
	"context"

	"github.com/starford/modcatalog/internal/dom"
)

// Sink replaces its whole prior output with a newly derived tree.
type Sink interface {
	Replace(ctx context.Context, tree *dom.Node) error
}

// Multi fans a tree out to several sinks in order, stopping at the first
// error.
type Multi []Sink

// Replace implements Sink.
func (m Multi) Replace(ctx context.Context, tree *dom.Node) error {
	for _, s := range m {
		if err := s.Replace(ctx, tree); err != nil {
			return err
		}
	}
	return nil
}
