package resolver

import (
	"regexp"
	"strconv"
	"strings"
)

// trackFormatPattern matches names like "03. Hey Jude", "7 - Intro" or
// "12_Outro": one or two digits, an optional space, one of "-", "." or "_"
// as separator, an optional space, then the title.
var trackFormatPattern = regexp.MustCompile(`^(\d{1,2}) ?[-._] ?(.+)$`)

// artistTitleSeparators are tried in order; the first that splits the name
// into two non-empty halves wins.
var artistTitleSeparators = []string{" - ", " – ", "_-_"}

// ParseTrackFormat parses a "track number then title" base name. A bare
// number without separator and title does not match.
func ParseTrackFormat(name string) (track int, title string, ok bool) {
	matches := trackFormatPattern.FindStringSubmatch(name)
	if matches == nil {
		return 0, "", false
	}
	track, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, "", false
	}
	title = strings.TrimSpace(matches[2])
	if title == "" {
		return 0, "", false
	}
	return track, title, true
}

// ParseArtistTitle splits an "Artist - Title" base name. Names matching the
// track format must be checked first; they are never artist-title names.
func ParseArtistTitle(name string) (artist, title string, ok bool) {
	for _, sep := range artistTitleSeparators {
		idx := strings.Index(name, sep)
		if idx < 0 {
			continue
		}
		artist = strings.TrimSpace(name[:idx])
		title = strings.TrimSpace(name[idx+len(sep):])
		if artist == "" || title == "" {
			continue
		}
		return artist, title, true
	}
	return "", "", false
}

// isNumeric reports whether the string is digits only
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
