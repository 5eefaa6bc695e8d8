package file

import (
	"crypto/sha256"
	"encoding/hex"
)

// Dosya içeriğinin hash hesaplaması
func CalculateHash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
