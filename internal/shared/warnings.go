package shared

import (
	"fmt"
	"sort"
	"strings"
)

// WarningType represents different types of warnings
type WarningType int

const (
	RecordingLookupWarning WarningType = iota
	ReleaseLookupWarning
	AlbumContextWarning
	CoverArtWarning
	FileSkippedWarning
	NoMatchWarning
	ScanTriggerWarning
)

// Warning represents a single warning with context
type Warning struct {
	Type    WarningType
	Message string
	Context string // file/album context
	Details string // additional details like error message
}

// WarningCollector collects warnings during an organize run
type WarningCollector struct {
	warnings  []Warning
	enabled   bool
	immediate bool
}

// NewWarningCollector creates a collector for the given behavior
// ("immediate", "summary" or "silent").
func NewWarningCollector(behavior string) *WarningCollector {
	return &WarningCollector{
		warnings:  make([]Warning, 0),
		enabled:   behavior != "silent",
		immediate: behavior == "immediate",
	}
}

// AddWarning adds a warning to the collector
func (wc *WarningCollector) AddWarning(warningType WarningType, context, message, details string) {
	if !wc.enabled {
		return
	}

	warning := Warning{
		Type:    warningType,
		Message: message,
		Context: context,
		Details: details,
	}
	wc.warnings = append(wc.warnings, warning)

	if wc.immediate {
		if details != "" {
			ColorWarning.Printf("⚠️  %s: %s (%s)\n", message, context, details)
		} else {
			ColorWarning.Printf("⚠️  %s: %s\n", message, context)
		}
	}
}

// AddRecordingLookupWarning records a failed recording query
func (wc *WarningCollector) AddRecordingLookupWarning(artist, title, details string) {
	context := fmt.Sprintf("%s - %s", artist, title)
	wc.AddWarning(RecordingLookupWarning, context, "Recording lookup failed", details)
}

// AddReleaseLookupWarning records a failed release query
func (wc *WarningCollector) AddReleaseLookupWarning(artist, album, details string) {
	context := fmt.Sprintf("%s - %s", artist, album)
	wc.AddWarning(ReleaseLookupWarning, context, "Release lookup failed", details)
}

// AddAlbumContextWarning records a directory whose album context stayed empty
func (wc *WarningCollector) AddAlbumContextWarning(dir, details string) {
	wc.AddWarning(AlbumContextWarning, dir, "No album context for directory", details)
}

// AddCoverArtWarning records a cover art extraction failure
func (wc *WarningCollector) AddCoverArtWarning(album, details string) {
	wc.AddWarning(CoverArtWarning, album, "Could not extract cover art", details)
}

// AddFileSkippedWarning records a file whose destination already existed
func (wc *WarningCollector) AddFileSkippedWarning(path string) {
	wc.AddWarning(FileSkippedWarning, path, "Destination already exists", "")
}

// AddNoMatchWarning records an argument that matched no files
func (wc *WarningCollector) AddNoMatchWarning(pattern string) {
	wc.AddWarning(NoMatchWarning, pattern, "No files matched", "")
}

// AddScanTriggerWarning records a failed server scan trigger
func (wc *WarningCollector) AddScanTriggerWarning(details string) {
	wc.AddWarning(ScanTriggerWarning, "subsonic", "Library scan trigger failed", details)
}

// HasWarnings returns true if there are any warnings
func (wc *WarningCollector) HasWarnings() bool {
	return len(wc.warnings) > 0
}

// GetWarningCount returns the total number of warnings
func (wc *WarningCollector) GetWarningCount() int {
	return len(wc.warnings)
}

// GetWarningsByType returns warnings grouped by type
func (wc *WarningCollector) GetWarningsByType() map[WarningType][]Warning {
	grouped := make(map[WarningType][]Warning)
	for _, warning := range wc.warnings {
		grouped[warning.Type] = append(grouped[warning.Type], warning)
	}
	return grouped
}

// PrintSummary prints a formatted summary of all warnings
func (wc *WarningCollector) PrintSummary() {
	if !wc.HasWarnings() || wc.immediate {
		return
	}

	ColorWarning.Printf("\n⚠️  Warning Summary (%d warnings):\n", len(wc.warnings))
	ColorWarning.Println(strings.Repeat("─", 50))

	grouped := wc.GetWarningsByType()

	// Sort warning types for consistent output
	var types []WarningType
	for warningType := range grouped {
		types = append(types, warningType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, warningType := range types {
		warnings := grouped[warningType]
		wc.printWarningTypeSection(warningType, warnings)
	}
}

// printWarningTypeSection prints warnings for a specific type
func (wc *WarningCollector) printWarningTypeSection(warningType WarningType, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}

	sectionTitle := wc.getWarningTypeTitle(warningType)
	ColorWarning.Printf("\n%s (%d):\n", sectionTitle, len(warnings))

	// Group similar warnings to avoid repetition
	contextCounts := make(map[string]int)
	for _, warning := range warnings {
		contextCounts[warning.Context]++
	}

	var contexts []string
	for context := range contextCounts {
		contexts = append(contexts, context)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		count := contextCounts[context]
		if count > 1 {
			ColorWarning.Printf("  • %s (×%d)\n", context, count)
		} else {
			ColorWarning.Printf("  • %s\n", context)
		}
	}
}

// getWarningTypeTitle returns a human-readable title for a warning type
func (wc *WarningCollector) getWarningTypeTitle(warningType WarningType) string {
	switch warningType {
	case RecordingLookupWarning:
		return "Recording Lookup Failures"
	case ReleaseLookupWarning:
		return "Release Lookup Failures"
	case AlbumContextWarning:
		return "Directories Without Album Context"
	case CoverArtWarning:
		return "Cover Art Extraction Failures"
	case FileSkippedWarning:
		return "Files Skipped (Destination Exists)"
	case NoMatchWarning:
		return "Arguments Matching No Files"
	case ScanTriggerWarning:
		return "Server Scan Failures"
	default:
		return "Other Warnings"
	}
}
