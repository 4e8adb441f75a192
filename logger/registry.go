package logger

import "sync"

// registry is a process-wide cache of named logger instances.
//
// First access per name creates the logger under a single mutex; subsequent
// lookups return the cached instance. This is the only process-wide shared
// structure in the package - individual Logger values are cheap immutable
// wrappers and need no synchronization.
type registry struct {
	mu      sync.Mutex
	cfg     Config
	root    Logger
	byName  map[string]Logger
}

//nolint:gochecknoglobals // single process-wide registry by design
var defaultRegistry = &registry{
	cfg:    Config{Level: "debug", Encoding: EncodingJSON},
	byName: make(map[string]Logger),
}

// Configure sets the configuration used by the registry for loggers created
// after the call. Already-cached loggers are discarded so they are re-created
// with the new configuration on next access. Intended to be called once at
// application startup, before concurrent use.
func Configure(cfg Config) error {
	root, err := New(cfg)
	if err != nil {
		return err
	}

	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	defaultRegistry.cfg = cfg
	defaultRegistry.root = root
	defaultRegistry.byName = make(map[string]Logger)
	return nil
}

// Named returns the cached logger for the given name, creating it on first
// access. Creation is serialized per registry.
func Named(name string) Logger {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	if l, ok := defaultRegistry.byName[name]; ok {
		return l
	}

	l := defaultRegistry.rootLocked().Named(name)
	defaultRegistry.byName[name] = l
	return l
}

// Default returns the root logger for the current configuration.
func Default() Logger {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	return defaultRegistry.rootLocked()
}

// rootLocked returns the root logger, creating it lazily.
// Callers must hold the registry mutex.
func (r *registry) rootLocked() Logger {
	if r.root == nil {
		root, err := New(r.cfg)
		if err != nil {
			panic("[logger]: failed to initialize default logger: " + err.Error())
		}
		r.root = root
	}
	return r.root
}
