package driver

import "crypto/sha256"

// Digest identifies a cached check result.
type Digest [32]byte

// grammarFingerprint changes whenever token patterns or grammar rules change,
// so results cached by an older validator are never reused.
const grammarFingerprint = "segpub/grammar/1"

// cacheKey: H(content hash || grammar fingerprint).
func cacheKey(content [32]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	_, _ = h.Write([]byte(grammarFingerprint))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
