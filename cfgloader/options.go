package cfgloader

// Options controls optional MustLoad behavior.
type Options struct {
	// Silent suppresses printing the loaded config at startup.
	Silent bool
}

// Option mutates Options; pass options to MustLoad.
type Option func(*Options)

// WithSilent suppresses the startup config printout.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}
