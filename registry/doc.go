// Package registry tracks in-flight calls by tag so that whole families of
// calls can be cancelled with one prefix.
//
// Keys have the form "<tag>-<task id>". Cancelling the prefix "Home:"
// cancels "Home:Profile-7" and "Home:Stream-9" but leaves "Other:Feed-3"
// running. All reads and writes go through a single mutex; a prefix scan
// and the cancellations it triggers happen inside one critical section.
package registry
