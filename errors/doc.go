// Package errors defines the failure kinds a bridge call can end with.
//
// Every failure delivered to an endpoint's failure callback is either a
// *CallError carrying one of the codes below, or an error reported by the
// transport itself, passed through unchanged. No code implies that the
// call may be retried; retry policy belongs to the caller.
package errors
