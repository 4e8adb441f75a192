package repo

// Settings holds adapter behavior toggles shared by all repository adapters.
type Settings struct {
	// StrictExistence makes Exists and ExistsSingle propagate provider
	// errors instead of masking them to (false, nil).
	StrictExistence bool
}

// Option mutates adapter Settings.
type Option func(*Settings)

// WithStrictExistence switches the exists-family from error-masking to
// error-propagating. By default a provider failure during Exists or
// ExistsSingle is reported as (false, nil).
func WithStrictExistence() Option {
	return func(s *Settings) {
		s.StrictExistence = true
	}
}

// NewSettings applies options over the default settings.
func NewSettings(opts ...Option) Settings {
	var s Settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
