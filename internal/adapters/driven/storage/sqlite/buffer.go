package sqlite

// fillBuffer copies src into buf and returns the filled slice.
//
// The buffer policy is:
//   - buf has capacity >= len(src): reused in place, no allocation
//   - buf is nil or too small: a new slice of exactly len(src) is allocated
//
// The caller owns the returned slice; the store keeps no reference to it.
func fillBuffer(buf, src []byte) []byte {
	if cap(buf) < len(src) {
		buf = make([]byte, len(src))
	}
	buf = buf[:len(src)]
	copy(buf, src)
	return buf
}
