// Package dispatch provides the single execution context on which call
// callbacks run.
//
// A Queue owns one goroutine that runs posted functions one at a time in
// posting order. Post never blocks and never runs the function inline, so
// a callback may itself execute further calls.
package dispatch
