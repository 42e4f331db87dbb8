package checksum

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

func CalculateHash(data []byte) string {
	digest := xxhash.New()
	digest.Write(data)

	return hex.EncodeToString(digest.Sum(nil))
}
