package storage

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// DeriveKey builds the object key for a new upload:
//
//	users/{owner}/folders/{folder}/{base}_{unixMillis}_{token}{ext}
//	users/{owner}/root/{base}_{unixMillis}_{token}{ext}
//
// The token only disambiguates uploads landing in the same millisecond.
func DeriveKey(originalName, ownerID, folderID string) string {
	return deriveKey(originalName, ownerID, folderID, time.Now(), strconv.FormatUint(rand.Uint64(), 36))
}

func deriveKey(originalName, ownerID, folderID string, now time.Time, token string) string {
	base, ext := SplitExtension(originalName)

	var b strings.Builder
	b.WriteString("users/")
	b.WriteString(ownerID)
	if folderID != "" {
		b.WriteString("/folders/")
		b.WriteString(folderID)
		b.WriteString("/")
	} else {
		b.WriteString("/root/")
	}
	b.WriteString(sanitize(base))
	b.WriteString("_")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteString("_")
	b.WriteString(token)
	b.WriteString(ext)
	return b.String()
}

// SplitExtension splits at the last dot. ext keeps the dot and is empty when
// the name has none.
func SplitExtension(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
}

// OwnedBy reports whether key lives under the owner's prefix.
func OwnedBy(key, ownerID string) bool {
	prefix := "users/" + ownerID + "/"
	return strings.HasPrefix(key, prefix) && len(key) > len(prefix) && !strings.Contains(key, "..")
}
