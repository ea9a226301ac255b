package errors

// MaxNodes is the largest node count accepted from untrusted sources
// (files and HTTP requests).
const MaxNodes = 50_000_000

// ValidateIndex checks that v is a valid node id for a mesh of n nodes.
// The what argument names the value in the error message (e.g. "root").
func ValidateIndex(what string, v, n int) error {
	if v < 0 || v >= n {
		return New(ErrCodeInvalidIndex, "%s %d out of range [0,%d)", what, v, n)
	}
	return nil
}

// ValidateNodeCount checks that a network size is non-empty and within limit.
// A limit <= 0 falls back to MaxNodes.
func ValidateNodeCount(n, limit int) error {
	if limit <= 0 {
		limit = MaxNodes
	}
	if n == 0 {
		return New(ErrCodeInvalidInput, "network has no nodes")
	}
	if n > limit {
		return New(ErrCodeInvalidInput, "network too large: %d nodes (max %d)", n, limit)
	}
	return nil
}
