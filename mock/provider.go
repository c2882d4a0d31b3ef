// Package mock provides test doubles for chat interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/chat"
)

// Interface compliance check.
var _ chat.Provider = (*Provider)(nil)

// Provider is a test double for chat.Provider.
// Set CompleteFn and/or StreamFn for the calls the test makes.
type Provider struct {
	CompleteFn func(ctx context.Context, req chat.Request) (string, error)
	StreamFn   func(ctx context.Context, req chat.Request) (chat.Stream, error)
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req chat.Request) (string, error) {
	return p.CompleteFn(ctx, req)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req chat.Request) (chat.Stream, error) {
	return p.StreamFn(ctx, req)
}
