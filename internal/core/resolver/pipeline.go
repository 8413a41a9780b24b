package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"flacsort/internal/interfaces"
	"flacsort/internal/shared"
)

// Pipeline resolves track metadata for one file at a time. Sources are
// merged in a fixed order and a later source only ever fills fields the
// earlier ones left empty: embedded tags, then the filename, then album
// context, then a remote lookup.
type Pipeline struct {
	tagReader interfaces.TagReaderService
	lookup    interfaces.LookupService
	contexts  interfaces.ContextService
	warnings  interfaces.WarningCollectorService
	debug     bool
}

// NewPipeline creates a resolution pipeline
func NewPipeline(tagReader interfaces.TagReaderService, lookup interfaces.LookupService, contexts interfaces.ContextService, warnings interfaces.WarningCollectorService, debug bool) *Pipeline {
	return &Pipeline{
		tagReader: tagReader,
		lookup:    lookup,
		contexts:  contexts,
		warnings:  warnings,
		debug:     debug,
	}
}

// Resolve produces merged metadata and a classification for one file.
// An unreadable file is a hard error; the caller skips the file and keeps
// going. Lookup failures only reduce the available data.
func (p *Pipeline) Resolve(ctx context.Context, path string) (*shared.TrackMetadata, shared.ResolutionClass, error) {
	raw, err := p.tagReader.Read(path)
	if err != nil {
		return nil, shared.ResolutionFailed, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	meta := NormalizeTags(raw)
	shared.DebugPrint(p.debug, "Tags for %s: artist=%q album=%q title=%q year=%q track=%d",
		path, meta.Artist, meta.Album, meta.Title, meta.Year, meta.Track)

	// Fully tagged files never touch the filename or the network
	if meta.Artist != "" && meta.Title != "" && meta.Album != "" {
		return meta, shared.Classify(meta), nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if track, title, ok := ParseTrackFormat(base); ok {
		if meta.Track == 0 {
			meta.Track = track
		}
		if meta.Title == "" {
			meta.Title = title
		}
		if meta.Artist == "" || meta.Album == "" {
			albumCtx := p.contexts.ResolveContext(ctx, filepath.Dir(path))
			if meta.Artist == "" {
				meta.Artist = albumCtx.Artist
			}
			if meta.Album == "" {
				meta.Album = albumCtx.Album
			}
			if meta.Year == "" {
				meta.Year = albumCtx.Year
			}
		}
	} else if artist, title, ok := ParseArtistTitle(base); ok {
		if meta.Artist == "" {
			meta.Artist = artist
		}
		if meta.Title == "" {
			meta.Title = title
		}
	}

	// A known artist and title can still recover the album remotely.
	// A missing artist is never recovered this way.
	if meta.Artist != "" && meta.Title != "" && meta.Album == "" {
		match, err := p.lookup.SearchRecording(ctx, meta.Artist, meta.Title)
		if err != nil {
			if p.warnings != nil {
				p.warnings.AddRecordingLookupWarning(meta.Artist, meta.Title, err.Error())
			}
		} else if match != nil {
			if meta.Album == "" {
				meta.Album = match.Album
			}
			if meta.Year == "" {
				meta.Year = match.Year
			}
			if meta.Track == 0 {
				meta.Track = match.Track
			}
		}
	}

	return meta, shared.Classify(meta), nil
}

// NormalizeTags converts raw vorbis fields into resolved metadata: the
// album artist wins over the track artist, the year comes from the date
// when possible and "N/M" track numbers are truncated to N.
func NormalizeTags(raw *shared.RawTags) *shared.TrackMetadata {
	meta := &shared.TrackMetadata{
		Artist: raw.Artist,
		Album:  raw.Album,
		Title:  raw.Title,
	}
	if raw.AlbumArtist != "" {
		meta.Artist = raw.AlbumArtist
	}

	meta.Year = shared.LeadingYear(raw.Date)
	if meta.Year == "" {
		meta.Year = shared.LeadingYear(raw.Year)
	}

	meta.Track = parseTrackTag(raw.TrackNumber)
	if meta.Track == 0 {
		meta.Track = parseTrackTag(raw.Track)
	}

	return meta
}

// parseTrackTag parses a track number tag, accepting the "7/12" form some
// taggers write. Anything non-numeric counts as absent.
func parseTrackTag(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if idx := strings.Index(value, "/"); idx >= 0 {
		value = value[:idx]
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
