package ports

import "context"

// LoginThrottle limits login attempts per login name. Acquire reserves an
// attempt atomically, so concurrent attempts cannot pass the limit.
type LoginThrottle interface {
	Acquire(ctx context.Context, login string) (bool, error)
	// Release returns an attempt that ended before credentials were checked.
	Release(ctx context.Context, login string) error
	Reset(ctx context.Context, login string) error
}

// NopThrottle never blocks. It is used when no throttle backend is configured.
type NopThrottle struct{}

func (NopThrottle) Acquire(context.Context, string) (bool, error) { return true, nil }
func (NopThrottle) Release(context.Context, string) error         { return nil }
func (NopThrottle) Reset(context.Context, string) error           { return nil }
