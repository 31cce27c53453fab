package logger

import "sync"

// named holds loggers published by their owners so that code built
// without an injected logger can share them.
var named sync.Map // string -> *Logger

// Register publishes l under name, replacing any earlier logger. A nil l
// removes the entry.
func Register(name string, l *Logger) {
	if l == nil {
		named.Delete(name)
		return
	}
	named.Store(name, l)
}

// Lookup returns the logger published under name.
func Lookup(name string) (*Logger, bool) {
	v, ok := named.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Logger), true
}

// Get returns the logger published under name, or the global logger
// tagged with name as its component.
func Get(name string) *Logger {
	if l, ok := Lookup(name); ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
