package shared

import "fmt"

// UnknownArtist is the placeholder some rippers write into the artist tag.
// A track carrying it is treated as having no usable artist at all.
const UnknownArtist = "Unknown Artist"

// RawTags holds the vorbis comment fields exactly as they appear in the
// file. Nothing is normalized here; empty string means the field is absent.
type RawTags struct {
	Artist      string
	AlbumArtist string
	Title       string
	Album       string
	Date        string
	Year        string
	TrackNumber string // may be "7" or "7/12"
	Track       string // legacy alias some taggers use
}

// TrackMetadata is the resolved view of a track after the pipeline has
// merged tags, filename and lookup data. Empty string / zero means the
// field could not be resolved.
type TrackMetadata struct {
	Artist string
	Album  string
	Title  string
	Year   string // four digits when present
	Track  int    // 0 means absent
}

// AlbumContext is what the sibling/directory resolver could learn about
// an album. An all-empty value is valid and means "nothing known".
type AlbumContext struct {
	Artist string
	Album  string
	Year   string
}

// Empty reports whether the context carries no information at all.
func (c AlbumContext) Empty() bool {
	return c.Artist == "" && c.Album == "" && c.Year == ""
}

// ResolutionClass is the outcome of resolving one file.
type ResolutionClass int

const (
	// ResolutionComplete means artist and album are both known. The title
	// is best-effort; without one the file keeps its original name.
	ResolutionComplete ResolutionClass = iota
	// ResolutionUnsure means the artist is known but the album is not.
	ResolutionUnsure
	// ResolutionFailed means no usable artist was found.
	ResolutionFailed
)

func (c ResolutionClass) String() string {
	switch c {
	case ResolutionComplete:
		return "complete"
	case ResolutionUnsure:
		return "unsure"
	case ResolutionFailed:
		return "failed"
	default:
		return fmt.Sprintf("ResolutionClass(%d)", int(c))
	}
}

// Classify applies the classification rules to resolved metadata.
func Classify(meta *TrackMetadata) ResolutionClass {
	if meta.Artist == "" || meta.Artist == UnknownArtist {
		return ResolutionFailed
	}
	if meta.Album == "" {
		return ResolutionUnsure
	}
	return ResolutionComplete
}

// ErrDestinationExists is returned when a file's computed destination is
// already occupied. The source file is left untouched.
var ErrDestinationExists = fmt.Errorf("destination already exists")

// RecordingMatch is the best match returned by a recording search.
// Fields missing in the response stay empty; nothing is defaulted.
type RecordingMatch struct {
	Artist string
	Album  string
	Year   string
	Track  int
}

// ReleaseMatch is the best match returned by a release search.
type ReleaseMatch struct {
	Artist string
	Album  string
	Year   string
}

// Run statistics
type RunStats struct {
	Organized  int // placed into the library tree
	Unsure     int // routed to check/Unsure
	Failed     int // routed to check/Failed
	Skipped    int // destination already existed
	Errors     int // hard per-file failures
	ErrorItems []string
}

// AddError records a hard failure for one input path.
func (s *RunStats) AddError(path string, err error) {
	s.Errors++
	s.ErrorItems = append(s.ErrorItems, fmt.Sprintf("%s: %v", path, err))
}

// Processed is the number of files that ended up somewhere on disk.
func (s *RunStats) Processed() int {
	return s.Organized + s.Unsure + s.Failed
}
