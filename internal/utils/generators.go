package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// paymentRefBytes is the random width of a payment reference: 6 bytes
// (12 hex chars, 48 bits), enough that collisions stay negligible at any
// realistic order volume.
const paymentRefBytes = 6

// PaymentRef mints an externally-visible payment reference of the form
// ORDER-<userID>-<12 hex>. Uniqueness is enforced by the orders table;
// callers regenerate on a collision.
func PaymentRef(userID int64) string {
	buf := make([]byte, paymentRefBytes)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a timestamp-based suffix if the random source fails.
		return fmt.Sprintf("ORDER-%d-%012x", userID, time.Now().UnixNano()&0xffffffffffff)
	}
	return fmt.Sprintf("ORDER-%d-%s", userID, hex.EncodeToString(buf))
}
