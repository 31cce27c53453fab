// Package transport defines the capability the bridge client sends
// requests through, and provides an implementation over net/http.
//
// A Transport prepares a Task for a finished request. The task does
// nothing until Start is called, which lets the caller register the task
// for cancellation before any network activity. The done callback receives
// exactly one Result per task, on a transport goroutine.
//
//	t, err := transport.NewHTTP(transport.Config{Timeout: 10 * time.Second})
//	task := t.Prepare(req, func(res transport.Result) { ... })
//	task.Start()
//	task.Cancel() // safe at any time, a no-op after completion
package transport
