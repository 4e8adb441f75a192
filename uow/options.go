package uow

// Option configures a UnitOfWork.
type Option func(*UnitOfWork)

// WithConflictDetector overrides the predicate that decides whether a save
// failure is a duplicate-key violation. Useful for non-PostgreSQL stores
// (the sqlite driver, for example, reports unique violations differently).
func WithConflictDetector(detector func(error) bool) Option {
	return func(u *UnitOfWork) {
		if detector != nil {
			u.detector = detector
		}
	}
}
