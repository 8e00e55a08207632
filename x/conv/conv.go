// Package conv formats integers into caller-owned buffers.
// No allocations; no fmt/strconv dependency, so it is safe on MCU builds.
package conv

const hexDigits = "0123456789abcdef"

// Utoa writes the base-10 form of n at the tail of buf and returns that slice.
// buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf
	}
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}

// Itoa is Utoa for signed values. buf should be length >= 20.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	if len(buf) < 2 {
		return buf[:0]
	}
	// Leave room for the sign; the negation of MinInt64 wraps to itself as uint64.
	d := Utoa(buf[1:], uint64(-n))
	i := len(buf) - len(d) - 1
	buf[i] = '-'
	return buf[i:]
}

// ByteHex writes b as "0x" plus two lowercase hex digits.
func ByteHex(buf []byte, b byte) []byte {
	if len(buf) < 4 {
		return buf[:0]
	}
	buf = buf[len(buf)-4:]
	buf[0], buf[1] = '0', 'x'
	buf[2] = hexDigits[b>>4]
	buf[3] = hexDigits[b&0xF]
	return buf
}
