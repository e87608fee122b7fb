package assets

import (
	"strings"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// ValidateType reports whether filename carries an allowed image
// extension. Only the text after the last dot counts, case-insensitively.
func ValidateType(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// fallbackStem names files whose original stem has nothing usable left.
const fallbackStem = "upload"

// storedName builds the on-disk name for filename: the stem is sanitized
// and the extension is kept as sent. Callers check ValidateType first.
func storedName(filename string) string {
	idx := strings.LastIndex(filename, ".")
	stem := sanitize(filename[:idx])
	if stem == "" {
		stem = fallbackStem
	}
	return stem + filename[idx:]
}

// sanitize reduces a client-supplied filename to a flat ASCII name made of
// letters, digits, '_', '.' and '-'. Directory components are flattened
// into the name, so the result never contains a path separator.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
