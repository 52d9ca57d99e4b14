package helpers

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// CalculateSliceIndices returns the [start, end) bounds of a 1-based page over
// totalItems elements. Both bounds are clamped to totalItems, so the result can
// always be used to slice directly. Non-positive inputs fall back to defaults.
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	if totalItems < 0 {
		totalItems = 0
	}

	// Checked before multiplying so huge pages cannot wrap around
	if page-1 > totalItems/size {
		return totalItems, totalItems
	}
	start = (page - 1) * size
	if start >= totalItems {
		return totalItems, totalItems
	}

	if size > totalItems-start {
		return start, totalItems
	}
	return start, start + size
}

// Paginate returns the requested page of items.
func Paginate[T any](items []T, page, size int) []T {
	start, end := CalculateSliceIndices(page, size, len(items))
	return items[start:end]
}
