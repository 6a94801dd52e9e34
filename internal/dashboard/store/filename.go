package store

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename folds name to a plain ASCII file name: accents are
// decomposed and dropped, whitespace and path separators become "_", other
// punctuation is removed, and leading or trailing dots and underscores are
// trimmed. It returns "" when nothing usable is left or the ".csv" extension
// did not survive.
func SanitizeFilename(name string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))

	ascii, _, err := transform.String(fold, name)
	if err != nil {
		return ""
	}

	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	ext := strings.ToLower(filepath.Ext(ascii))
	if ext != ".csv" || len(ascii) == len(ext) {
		return ""
	}

	return ascii
}
