package mock

import "github.com/fwojciec/chat"

// Interface compliance check.
var _ chat.Console = (*Console)(nil)

// Console is a test double for chat.Console.
type Console struct {
	ReadLineFn func() (string, error)
	RenderFn   func(r chat.Result) string
}

// ReadLine delegates to ReadLineFn.
func (c *Console) ReadLine() (string, error) {
	return c.ReadLineFn()
}

// Render delegates to RenderFn.
func (c *Console) Render(r chat.Result) string {
	return c.RenderFn(r)
}
