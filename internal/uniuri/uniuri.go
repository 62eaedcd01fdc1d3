package uniuri

import (
	"crypto/rand"
)

// StdLen gives roughly 95 bits of entropy over StdChars.
const StdLen = 16

// StdChars is the alphabet of generated tokens.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// New returns a token of StdLen characters from StdChars.
func New() string {
	return NewLenChars(StdLen, StdChars)
}

// NewLen returns a token of length characters from StdChars.
func NewLen(length int) string {
	return NewLenChars(length, StdChars)
}

// NewLenChars returns a token of length characters drawn uniformly from chars.
// It panics when chars is empty or longer than 256 bytes, or when the system
// random source fails.
func NewLenChars(length int, chars []byte) string {
	if length <= 0 {
		return ""
	}

	n := len(chars)
	if n < 1 || n > 256 {
		panic("uniuri: wrong charset length for NewLenChars")
	}

	// bytes at or above limit would bias the result and are discarded
	limit := 256 - (256 % n)
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/4+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out)
}
