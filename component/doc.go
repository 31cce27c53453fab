// Package component defines lifecycle contracts for long-lived pieces of a
// bridge application, such as a client together with its callback queue.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse order.
package component
