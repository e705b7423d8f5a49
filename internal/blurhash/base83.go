package blurhash

import (
	"fmt"
	"strings"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

// EncodeBase83 renders value as exactly length base-83 digits, most
// significant first. Higher digits that do not fit are dropped.
func EncodeBase83(value, length int) string {
	var sb strings.Builder
	sb.Grow(length)
	divisor := 1
	for i := 1; i < length; i++ {
		divisor *= 83
	}
	for ; length > 0; length-- {
		digit := (value / divisor) % 83
		sb.WriteByte(alphabet[digit])
		divisor /= 83
	}
	return sb.String()
}

func DecodeBase83(s string) (int, error) {
	value := 0
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(alphabet, s[i])
		if idx < 0 {
			return 0, fmt.Errorf("%w: character %q", ErrInvalidHash, s[i])
		}
		value = value*83 + idx
	}
	return value, nil
}
