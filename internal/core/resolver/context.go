package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"flacsort/internal/interfaces"
	"flacsort/internal/shared"
)

// directoryContextCache holds resolved album context per directory.
// Empty contexts are cached too: a directory that yielded nothing is
// never scanned or queried again within a run.
type directoryContextCache struct {
	contexts map[string]shared.AlbumContext // key: absolute directory path
	mu       sync.RWMutex
}

func newDirectoryContextCache() *directoryContextCache {
	return &directoryContextCache{
		contexts: make(map[string]shared.AlbumContext),
	}
}

// Get retrieves a cached context
func (cache *directoryContextCache) Get(dir string) (shared.AlbumContext, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	ctx, ok := cache.contexts[dir]
	return ctx, ok
}

// Set stores a context in the cache
func (cache *directoryContextCache) Set(dir string, ctx shared.AlbumContext) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.contexts[dir] = ctx
}

// ContextResolver derives album context for a directory from sibling
// filenames and, failing that, from the directory name itself.
type ContextResolver struct {
	lookup    interfaces.LookupService
	warnings  interfaces.WarningCollectorService
	cache     *directoryContextCache
	extension string
	debug     bool
}

// NewContextResolver creates a context resolver backed by the given lookup
func NewContextResolver(lookup interfaces.LookupService, warnings interfaces.WarningCollectorService, extension string, debug bool) *ContextResolver {
	return &ContextResolver{
		lookup:    lookup,
		warnings:  warnings,
		cache:     newDirectoryContextCache(),
		extension: extension,
		debug:     debug,
	}
}

// ResolveContext returns the album context for a directory, computing it on
// first use and serving it from the cache afterwards. The result may be
// empty; lookup failures degrade to an empty context and never fail the run.
func (r *ContextResolver) ResolveContext(ctx context.Context, dir string) shared.AlbumContext {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	if cached, ok := r.cache.Get(dir); ok {
		shared.DebugPrint(r.debug, "Album context cache hit for %s", dir)
		return cached
	}

	albumCtx := r.scanSiblings(ctx, dir)
	if albumCtx.Empty() {
		albumCtx = r.parentDirContext(ctx, dir)
	}
	if albumCtx.Empty() && r.warnings != nil {
		r.warnings.AddAlbumContextWarning(dir, "")
	}

	r.cache.Set(dir, albumCtx)
	return albumCtx
}

// scanSiblings looks for "Artist - Title" shaped files in the directory and
// asks the lookup about each candidate until one query returns a match.
func (r *ContextResolver) scanSiblings(ctx context.Context, dir string) shared.AlbumContext {
	entries, err := os.ReadDir(dir)
	if err != nil {
		shared.DebugPrint(r.debug, "Cannot read directory %s: %v", dir, err)
		return shared.AlbumContext{}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, r.extension) {
			continue
		}
		base := strings.TrimSuffix(name, ext)

		// Numbered tracks carry no artist information
		if _, _, ok := ParseTrackFormat(base); ok {
			continue
		}

		idx := strings.Index(base, " - ")
		if idx < 0 {
			continue
		}
		candidate := strings.TrimSpace(base[:idx])
		remainder := strings.TrimSpace(base[idx+3:])
		if candidate == "" || remainder == "" || isNumeric(candidate) {
			continue
		}

		match, err := r.lookup.SearchRecording(ctx, candidate, remainder)
		if err != nil {
			if r.warnings != nil {
				r.warnings.AddRecordingLookupWarning(candidate, remainder, err.Error())
			}
			continue
		}
		if match == nil {
			continue
		}

		albumCtx := shared.AlbumContext{
			Artist: match.Artist,
			Album:  match.Album,
			Year:   match.Year,
		}
		if albumCtx.Empty() {
			continue
		}
		shared.DebugPrint(r.debug, "Album context for %s from sibling %q: %s / %s (%s)",
			dir, name, albumCtx.Artist, albumCtx.Album, albumCtx.Year)
		return albumCtx
	}

	return shared.AlbumContext{}
}

// parentDirContext derives context from an "Artist - Album" directory name
func (r *ContextResolver) parentDirContext(ctx context.Context, dir string) shared.AlbumContext {
	name := filepath.Base(dir)
	idx := strings.Index(name, " - ")
	if idx < 0 {
		return shared.AlbumContext{}
	}
	artist := strings.TrimSpace(name[:idx])
	album := strings.TrimSpace(name[idx+3:])
	if artist == "" || album == "" {
		return shared.AlbumContext{}
	}

	match, err := r.lookup.SearchRelease(ctx, artist, album)
	if err != nil {
		if r.warnings != nil {
			r.warnings.AddReleaseLookupWarning(artist, album, err.Error())
		}
		return shared.AlbumContext{}
	}
	if match == nil {
		return shared.AlbumContext{}
	}

	albumCtx := shared.AlbumContext{
		Artist: match.Artist,
		Album:  match.Album,
		Year:   match.Year,
	}
	shared.DebugPrint(r.debug, "Album context for %s from directory name: %s / %s (%s)",
		dir, albumCtx.Artist, albumCtx.Album, albumCtx.Year)
	return albumCtx
}
