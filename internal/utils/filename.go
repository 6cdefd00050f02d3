package utils

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

const maxFilenameLength = 200

// SanitizeFilename strips characters that are unsafe in a storage key or an
// HTTP header value and collapses whitespace.
func SanitizeFilename(filename string) string {
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	if len(filename) > maxFilenameLength {
		cut := maxFilenameLength
		for cut > 0 && !utf8.RuneStart(filename[cut]) {
			cut--
		}
		filename = strings.TrimSpace(filename[:cut])
	}

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// StorageName turns an uploaded filename into a single path segment suitable
// for a storage key: directories are dropped and spaces become dashes.
func StorageName(original string) string {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	name := SanitizeFilename(base)
	return strings.ReplaceAll(name, " ", "-")
}

// DownloadFilename builds the attachment filename for a book PDF: the title
// with spaces replaced by dashes, plus ".pdf".
func DownloadFilename(title string) string {
	name := SanitizeFilename(title)
	return strings.ReplaceAll(name, " ", "-") + ".pdf"
}
