//go:build unix

package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResize invalidates the cached geometry on every SIGWINCH until ctx is
// done. If fn is non-nil it is called from the watcher goroutine with the
// freshly queried size; fn must not touch the renderer, which belongs to the
// main loop.
func (t *Terminal) WatchResize(ctx context.Context, fn func(Geometry)) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	t.Go(func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				t.probe.Invalidate()
				if fn != nil {
					fn(t.probe.Geometry())
				}
			}
		}
	})
}
