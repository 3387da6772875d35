// Package machina is a finite state machine simulation engine. Machines
// are described declaratively as states, transitions and authored action
// code in a small embedded expression language; a Simulator executes the
// description step by step, arbitrating events against guarded
// transitions and logging everything it does.
package machina
