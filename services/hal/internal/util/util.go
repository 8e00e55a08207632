// services/hal/internal/util/util.go
package util

func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
