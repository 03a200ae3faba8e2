package service

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Interrupt is a polled shutdown flag. Jobs check it between rows so an
// operator's Ctrl-C finishes the current row cleanly instead of tearing the
// process down mid-write. The ledger entry is deliberately left running; the
// staleness sweep reclaims it if the job never resumes.
type Interrupt struct {
	flag    atomic.Bool
	sigCh   chan os.Signal
	stopped atomic.Bool
}

// NewInterrupt creates an unarmed interrupt flag.
func NewInterrupt() *Interrupt {
	return &Interrupt{}
}

// Watch arms the flag on SIGINT and SIGTERM.
func (i *Interrupt) Watch() {
	i.sigCh = make(chan os.Signal, 1)
	signal.Notify(i.sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-i.sigCh
		i.flag.Store(true)
	}()
}

// Stop detaches the signal handler.
func (i *Interrupt) Stop() {
	if i.sigCh != nil && i.stopped.CompareAndSwap(false, true) {
		signal.Stop(i.sigCh)
	}
}

// Trigger sets the flag directly. Used by tests and parent processes.
func (i *Interrupt) Trigger() {
	i.flag.Store(true)
}

// Triggered reports whether shutdown was requested.
func (i *Interrupt) Triggered() bool {
	return i.flag.Load()
}
