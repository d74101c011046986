package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle trims a title and converts it to Unicode NFC.
// Plex may store titles in decomposed form, which trakt does not match.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}
