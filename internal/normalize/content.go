package normalize

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// contentHashRunes bounds how much article text feeds the fingerprint.
// Leading text identifies an article; trailing boilerplate varies per site.
const contentHashRunes = 500

// ContentHash fingerprints article text for exact-duplicate detection:
// whitespace-collapsed, lowercased, truncated to the first 500 characters,
// then hashed. Empty content returns "" so the signal abstains.
func ContentHash(content string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(content), " "))
	if normalized == "" {
		return ""
	}

	runes := []rune(normalized)
	if len(runes) > contentHashRunes {
		runes = runes[:contentHashRunes]
	}

	sum := md5.Sum([]byte(string(runes)))
	return hex.EncodeToString(sum[:])
}
