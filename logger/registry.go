package logger

import "sync"

// Named component loggers. The CLI registers one per component after the
// app logger is configured, and packages look theirs up by name.
var (
	namedMu sync.RWMutex
	named   = make(map[string]*Logger)
)

// Register stores l under name, replacing any earlier entry.
func Register(name string, l *Logger) {
	namedMu.Lock()
	named[name] = l
	namedMu.Unlock()
}

// Get returns the logger registered under name. Unknown names get the
// global logger tagged with the component.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
