package pagination

// Request carries the caller-supplied page window of a list request.
// Embed it in filter DTOs to pick the values up from query parameters.
type Request struct {
	PageNumber int `query:"page_number" json:"page_number"`
	PageSize   int `query:"page_size"   json:"page_size"`
}

// Normalize applies defaults and constraints: a non-positive page number
// becomes 1, a non-positive page size falls back to the configured default,
// and the page size is capped at the configured maximum.
func (r *Request) Normalize(opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if r.PageNumber <= 0 {
		r.PageNumber = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = o.DefaultPageSize
	}
	if r.PageSize > o.MaxPageSize {
		r.PageSize = o.MaxPageSize
	}
}

// Offset returns the number of rows to skip.
func (r *Request) Offset() int {
	return (r.PageNumber - 1) * r.PageSize
}

// Limit returns the number of rows to take.
func (r *Request) Limit() int {
	return r.PageSize
}
