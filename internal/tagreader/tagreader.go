package tagreader

import (
	"fmt"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"flacsort/internal/shared"
)

// Vorbis comment fields without a flacvorbis constant
const (
	fieldAlbumArtist = "ALBUMARTIST"
	fieldYear        = "YEAR"
	fieldTrack       = "TRACK"
)

// Reader extracts embedded metadata from FLAC files
type Reader struct{}

// NewReader creates a new FLAC tag reader
func NewReader() *Reader {
	return &Reader{}
}

// Read extracts the raw vorbis comment fields from a file. A file without
// a vorbis comment block yields empty tags; a file that cannot be parsed
// as FLAC is an error.
func (r *Reader) Read(path string) (*shared.RawTags, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	tags := &shared.RawTags{}

	for _, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, fmt.Errorf("failed to parse vorbis comment: %w", err)
		}
		tags.Artist = firstValue(cmts, flacvorbis.FIELD_ARTIST)
		tags.AlbumArtist = firstValue(cmts, fieldAlbumArtist)
		tags.Title = firstValue(cmts, flacvorbis.FIELD_TITLE)
		tags.Album = firstValue(cmts, flacvorbis.FIELD_ALBUM)
		tags.Date = firstValue(cmts, flacvorbis.FIELD_DATE)
		tags.Year = firstValue(cmts, fieldYear)
		tags.TrackNumber = firstValue(cmts, flacvorbis.FIELD_TRACKNUMBER)
		tags.Track = firstValue(cmts, fieldTrack)
		break
	}

	return tags, nil
}

// ReadFrontCover returns the embedded front cover image data. Files without
// any picture block yield nil data and nil error; a picture of another type
// is returned only when no front cover exists.
func (r *Reader) ReadFrontCover(path string) ([]byte, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	var fallback []byte
	for _, meta := range f.Meta {
		if meta.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
			return pic.ImageData, nil
		}
		if fallback == nil {
			fallback = pic.ImageData
		}
	}

	return fallback, nil
}

// Equal reports whether two tag sets carry the same values. Used to verify
// that a copied file still reads back identically.
func Equal(a, b *shared.RawTags) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// firstValue returns the first value of a comment field, or ""
func firstValue(cmts *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	values, err := cmts.Get(field)
	if err != nil || len(values) == 0 {
		return ""
	}
	return values[0]
}
