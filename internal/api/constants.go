package api

// API limits and constants.
const (
	// MaxImportSize is the maximum accepted import payload (10 MB).
	MaxImportSize = 10 << 20

	// MaxRenderSize bounds Markdown and HTML sent to the render endpoints (1 MB).
	MaxRenderSize = 1 << 20
)

// Cache-Control header values.
const (
	CacheNoStore = "no-store"
)
