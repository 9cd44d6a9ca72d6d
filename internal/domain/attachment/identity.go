package attachment

import (
	"crypto/sha256"
	"encoding/hex"
)

const digestLength = 8

// PhotoID derives the photo identity from the event time and storage key:
// "<eventTime>~<first 8 hex of sha256(key)>". Identical (eventTime, key) pairs
// always produce the same identity, so exact redeliveries collide on purpose.
// Without an event time only the digest is returned.
func PhotoID(eventTime, key string) string {
	sum := sha256.Sum256([]byte(key))
	suffix := hex.EncodeToString(sum[:])[:digestLength]
	if eventTime == "" {
		return suffix
	}
	return eventTime + "~" + suffix
}
