// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"os"
	"os/signal"
)

const interruptHelp = "Interrupt stops the program (or enters the debugger " +
	"with -debug); a second interrupt exits while waiting for input"

// watchInterrupts cancels on the first signal. The machine only observes the
// cancellation between instructions, so a second signal arriving before done
// is closed calls force.
func watchInterrupts(
	signals <-chan os.Signal,
	cancel func(),
	force func(),
	done <-chan struct{},
) {
	select {
	case <-signals:
		cancel()
	case <-done:
		return
	}

	select {
	case <-signals:
		force()
	case <-done:
	}
}

func forceExit() {
	log.Warn().Msg("Interrupted while waiting for input")
	os.Exit(130)
}

// interruptContext returns a context cancelled by SIGINT. The stop function
// releases the signal handler and must be called once the run returns.
func interruptContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	finished := make(chan struct{})

	signal.Notify(signals, os.Interrupt)

	go func() {
		defer close(finished)
		watchInterrupts(signals, cancel, forceExit, done)
	}()

	return ctx, func() {
		signal.Stop(signals)
		close(done)
		<-finished
		cancel()
	}
}
