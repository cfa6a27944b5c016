package testutil

import (
	"context"

	"github.com/kbukum/seedkit/component"
)

// TestComponent extends component.Component with Reset, which empties the
// backing store so each test case starts from a clean state.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error
}
