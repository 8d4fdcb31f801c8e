package storage

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// HashContent stable hex name for a blob
func HashContent(data []byte) string {
	h1, h2 := murmur3.Sum128(data)
	return fmt.Sprintf("%x", combineHash(h1, h2))
}

func combineHash(h1, h2 uint64) []byte {
	return []byte{
		byte(h1 >> 56), byte(h1 >> 48), byte(h1 >> 40), byte(h1 >> 32),
		byte(h1 >> 24), byte(h1 >> 16), byte(h1 >> 8), byte(h1),

		byte(h2 >> 56), byte(h2 >> 48), byte(h2 >> 40), byte(h2 >> 32),
		byte(h2 >> 24), byte(h2 >> 16), byte(h2 >> 8), byte(h2),
	}
}
