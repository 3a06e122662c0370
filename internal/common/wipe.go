package common

// Wipe zeroes every buffer it is given. Passwords and request bodies that
// carried them are wiped once sent.
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
