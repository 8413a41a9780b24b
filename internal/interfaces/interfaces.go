package interfaces

import (
	"context"

	"flacsort/internal/shared"
)

// TagReaderService defines the interface for reading embedded FLAC metadata
type TagReaderService interface {
	// Read extracts the raw vorbis comment fields from a file
	Read(path string) (*shared.RawTags, error)

	// ReadFrontCover returns the embedded front cover image data, if any
	ReadFrontCover(path string) ([]byte, error)
}

// LookupService defines the interface for remote metadata lookups
type LookupService interface {
	// SearchRecording looks up a recording by artist and title.
	// A nil match with nil error means the query cleanly found nothing.
	SearchRecording(ctx context.Context, artist, title string) (*shared.RecordingMatch, error)

	// SearchRelease looks up a release by artist and album title.
	// A nil match with nil error means the query cleanly found nothing.
	SearchRelease(ctx context.Context, artist, album string) (*shared.ReleaseMatch, error)
}

// ContextService defines the interface for directory-level album context
type ContextService interface {
	// ResolveContext derives album context for a directory. The result may
	// be empty; it is computed at most once per directory per run.
	ResolveContext(ctx context.Context, dir string) shared.AlbumContext
}

// ResolverService defines the interface for the metadata resolution pipeline
type ResolverService interface {
	// Resolve produces merged metadata and a classification for one file
	Resolve(ctx context.Context, path string) (*shared.TrackMetadata, shared.ResolutionClass, error)
}

// PlacerService defines the interface for physical file placement
type PlacerService interface {
	// DestinationPath computes where a file would be placed
	DestinationPath(meta *shared.TrackMetadata, class shared.ResolutionClass, sourcePath string) string

	// Place copies the file to its destination, validates the copy and
	// removes the source. Returns the destination path.
	Place(meta *shared.TrackMetadata, class shared.ResolutionClass, sourcePath string) (string, error)
}

// ScanService defines the interface for media server scan triggers
type ScanService interface {
	// Authenticate authenticates with the media server
	Authenticate() error

	// StartScan asks the server to rescan its library
	StartScan() error
}

// LoggerService defines the interface for logging operations
type LoggerService interface {
	// Info logs an informational message
	Info(message string, args ...interface{})

	// Warning logs a warning message
	Warning(message string, args ...interface{})

	// Error logs an error message
	Error(message string, args ...interface{})

	// Debug logs a debug message
	Debug(message string, args ...interface{})

	// Success logs a success message
	Success(message string, args ...interface{})

	// SetDebugMode enables or disables debug logging
	SetDebugMode(enabled bool)
}

// WarningCollectorService defines the interface for warning collection
type WarningCollectorService interface {
	// AddWarning adds a warning to the collection
	AddWarning(warningType shared.WarningType, context, message, details string)

	// AddRecordingLookupWarning records a failed recording query
	AddRecordingLookupWarning(artist, title, details string)

	// AddReleaseLookupWarning records a failed release query
	AddReleaseLookupWarning(artist, album, details string)

	// AddAlbumContextWarning records a directory whose context stayed empty
	AddAlbumContextWarning(dir, details string)

	// AddCoverArtWarning records a cover art extraction failure
	AddCoverArtWarning(album, details string)

	// AddFileSkippedWarning records a file whose destination already existed
	AddFileSkippedWarning(path string)

	// AddNoMatchWarning records an argument that matched no files
	AddNoMatchWarning(pattern string)

	// AddScanTriggerWarning records a failed server scan trigger
	AddScanTriggerWarning(details string)

	// HasWarnings returns true if there are any warnings
	HasWarnings() bool

	// GetWarningCount returns the total number of warnings
	GetWarningCount() int

	// PrintSummary prints a formatted summary of all warnings
	PrintSummary()
}
