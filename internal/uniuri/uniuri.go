package uniuri

import "crypto/rand"

// StdLen is the default identifier length (~95 bits of entropy).
const StdLen = 16

// StdChars is the character set identifiers are drawn from.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// New returns a random identifier of the standard length.
func New() string {
	return NewLen(StdLen)
}

// NewLen returns a random identifier of the given length drawn from
// StdChars. Random bytes above the largest unbiased multiple of the
// charset size are rejected, so every character is equally likely.
func NewLen(length int) string {
	if length <= 0 {
		return ""
	}

	clen := len(StdChars)
	maxrb := 255 - (256 % clen)

	out := make([]byte, length)
	buf := make([]byte, length+length/4+1)

	i := 0

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			c := int(rb)
			if c > maxrb {
				continue
			}

			out[i] = StdChars[c%clen]
			i++

			if i == length {
				return string(out)
			}
		}
	}
}
