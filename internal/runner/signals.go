package runner

import (
	"os"
	"os/signal"
	"syscall"
)

// forwardSignals keeps the wrapper alive through interrupt and terminate
// signals while the child runs, so it can still report the child's status.
// Only SIGTERM is relayed; a terminal Ctrl-C already reaches the child
// through the shared process group. The returned function stops forwarding.
func forwardSignals(proc *os.Process) func() {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-sigCh:
				if relayed(sig) {
					_ = proc.Signal(sig)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

func relayed(sig os.Signal) bool {
	return sig == syscall.SIGTERM
}
