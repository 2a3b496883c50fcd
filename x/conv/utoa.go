package conv

// Utoa writes n in base 10 at the end of buf and returns that tail. A buf of
// 20 bytes holds any uint64; a shorter one keeps the low digits.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf
	}
	for {
		i--
		buf[i] = '0' + byte(n%10)
		n /= 10
		if n == 0 || i == 0 {
			return buf[i:]
		}
	}
}
