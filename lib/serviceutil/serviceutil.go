package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext is cancelled on the first SIGINT or SIGTERM, a second one
// kills the process as usual.
func SignalContext() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		slog.Info("interrupted, finishing the current step")
		stop()
	}()
	return ctx
}

var exit = os.Exit

var fatalLock sync.Mutex
var fatalHooks []func()

// OnFatal registers fn to run before Fatal exits the process, hooks run
// in reverse order of registration like deferred calls.
func OnFatal(fn func()) {
	fatalLock.Lock()
	defer fatalLock.Unlock()
	fatalHooks = append(fatalHooks, fn)
}

// Fatal logs err, runs the OnFatal hooks and exits with status 1.
func Fatal(message string, err error) {
	slog.Error(message, "err", err)

	fatalLock.Lock()
	hooks := fatalHooks
	fatalHooks = nil
	fatalLock.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
	exit(1)
}
