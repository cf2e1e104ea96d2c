package handler

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// DefaultLimit is the default page size for list endpoints.
	DefaultLimit = 25

	// MaxLimit caps a caller-supplied page size.
	MaxLimit = 100
)

// Page normalizes limit/offset query values into range.
func Page(limit, offset int) (int, int) {
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
