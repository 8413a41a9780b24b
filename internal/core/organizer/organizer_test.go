package organizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"flacsort/internal/config"
	"flacsort/internal/shared"
)

// fakeResolver classifies files by base name, defaulting to complete
type fakeResolver struct {
	classes map[string]shared.ResolutionClass
	err     error
	calls   int
}

func (f *fakeResolver) Resolve(ctx context.Context, path string) (*shared.TrackMetadata, shared.ResolutionClass, error) {
	f.calls++
	if f.err != nil {
		return nil, shared.ResolutionFailed, f.err
	}
	class := f.classes[filepath.Base(path)]
	return &shared.TrackMetadata{Artist: "A", Album: "B", Title: "C"}, class, nil
}

// fakePlacer records calls without touching the filesystem
type fakePlacer struct {
	destCalls  int
	placeCalls int
	err        error
}

func (f *fakePlacer) DestinationPath(meta *shared.TrackMetadata, class shared.ResolutionClass, sourcePath string) string {
	f.destCalls++
	return "/placed/" + filepath.Base(sourcePath)
}

func (f *fakePlacer) Place(meta *shared.TrackMetadata, class shared.ResolutionClass, sourcePath string) (string, error) {
	f.placeCalls++
	if f.err != nil {
		return "/placed/" + filepath.Base(sourcePath), f.err
	}
	return "/placed/" + filepath.Base(sourcePath), nil
}

// fakeLogger collects formatted messages
type fakeLogger struct {
	messages []string
}

func (l *fakeLogger) record(message string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(message, args...))
}

func (l *fakeLogger) Info(message string, args ...interface{})    { l.record(message, args...) }
func (l *fakeLogger) Warning(message string, args ...interface{}) { l.record(message, args...) }
func (l *fakeLogger) Error(message string, args ...interface{})   { l.record(message, args...) }
func (l *fakeLogger) Debug(message string, args ...interface{})   { l.record(message, args...) }
func (l *fakeLogger) Success(message string, args ...interface{}) { l.record(message, args...) }
func (l *fakeLogger) SetDebugMode(enabled bool)                   {}

// fakeScanner counts scan trigger calls
type fakeScanner struct {
	authCalls int
	scanCalls int
	authErr   error
	scanErr   error
}

func (f *fakeScanner) Authenticate() error {
	f.authCalls++
	return f.authErr
}

func (f *fakeScanner) StartScan() error {
	f.scanCalls++
	return f.scanErr
}

func newTestOrganizer(resolver *fakeResolver, placer *fakePlacer, scanner *fakeScanner, cfg *config.Config) (*Organizer, *shared.WarningCollector) {
	warnings := shared.NewWarningCollector("silent")
	if cfg == nil {
		cfg = &config.Config{Extension: ".flac"}
	}
	var org *Organizer
	if scanner == nil {
		org = NewOrganizer(resolver, placer, nil, &fakeLogger{}, warnings, cfg)
	} else {
		org = NewOrganizer(resolver, placer, scanner, &fakeLogger{}, warnings, cfg)
	}
	return org, warnings
}

func TestRunCountsClasses(t *testing.T) {
	resolver := &fakeResolver{classes: map[string]shared.ResolutionClass{
		"b.flac": shared.ResolutionUnsure,
		"c.flac": shared.ResolutionFailed,
	}}
	placer := &fakePlacer{}
	org, _ := newTestOrganizer(resolver, placer, nil, nil)

	stats, err := org.Run(context.Background(), []string{"/music/a.flac", "/music/b.flac", "/music/c.flac"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Organized != 1 {
		t.Errorf("Expected 1 organized, got %d", stats.Organized)
	}
	if stats.Unsure != 1 {
		t.Errorf("Expected 1 unsure, got %d", stats.Unsure)
	}
	if stats.Failed != 1 {
		t.Errorf("Expected 1 failed, got %d", stats.Failed)
	}
	if stats.Errors != 0 {
		t.Errorf("Expected 0 errors, got %d", stats.Errors)
	}
	if stats.Processed() != 3 {
		t.Errorf("Expected 3 processed, got %d", stats.Processed())
	}
	if placer.placeCalls != 3 {
		t.Errorf("Expected 3 placements, got %d", placer.placeCalls)
	}
}

func TestRunRejectsWrongExtension(t *testing.T) {
	resolver := &fakeResolver{}
	org, _ := newTestOrganizer(resolver, &fakePlacer{}, nil, nil)

	stats, err := org.Run(context.Background(), []string{"/music/song.mp3"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Errors)
	}
	if stats.Processed() != 0 {
		t.Errorf("Expected 0 processed, got %d", stats.Processed())
	}
	if resolver.calls != 0 {
		t.Errorf("Expected the resolver to be skipped, got %d calls", resolver.calls)
	}
}

func TestRunGlobExpansion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.flac", "b.flac"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fLaC"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	resolver := &fakeResolver{}
	org, _ := newTestOrganizer(resolver, &fakePlacer{}, nil, nil)

	stats, err := org.Run(context.Background(), []string{filepath.Join(dir, "*.flac")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if resolver.calls != 2 {
		t.Errorf("Expected 2 files resolved, got %d", resolver.calls)
	}
	if stats.Organized != 2 {
		t.Errorf("Expected 2 organized, got %d", stats.Organized)
	}
}

func TestRunGlobWithoutMatches(t *testing.T) {
	resolver := &fakeResolver{}
	placer := &fakePlacer{}
	warnings := shared.NewWarningCollector("summary")
	org := NewOrganizer(resolver, placer, nil, &fakeLogger{}, warnings, &config.Config{Extension: ".flac"})

	pattern := filepath.Join(t.TempDir(), "*.flac")
	stats, err := org.Run(context.Background(), []string{pattern})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Errors)
	}
	if resolver.calls != 0 {
		t.Errorf("Expected no resolution, got %d calls", resolver.calls)
	}
	if warnings.GetWarningCount() != 1 {
		t.Errorf("Expected 1 warning, got %d", warnings.GetWarningCount())
	}
}

func TestRunDryRun(t *testing.T) {
	placer := &fakePlacer{}
	cfg := &config.Config{Extension: ".flac", DryRun: true}
	org, _ := newTestOrganizer(&fakeResolver{}, placer, nil, cfg)

	stats, err := org.Run(context.Background(), []string{"/music/a.flac"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if placer.placeCalls != 0 {
		t.Errorf("Expected no placements in a dry run, got %d", placer.placeCalls)
	}
	if placer.destCalls != 1 {
		t.Errorf("Expected 1 destination computation, got %d", placer.destCalls)
	}
	if stats.Organized != 1 {
		t.Errorf("Expected the dry run to still count classes, got %d organized", stats.Organized)
	}
}

func TestRunSkipsExistingDestination(t *testing.T) {
	placer := &fakePlacer{err: shared.ErrDestinationExists}
	org, _ := newTestOrganizer(&fakeResolver{}, placer, nil, nil)

	stats, err := org.Run(context.Background(), []string{"/music/a.flac"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", stats.Skipped)
	}
	if stats.Errors != 0 {
		t.Errorf("Expected 0 errors, got %d", stats.Errors)
	}
	if stats.Organized != 0 {
		t.Errorf("Expected 0 organized, got %d", stats.Organized)
	}
}

func TestRunResolveErrorCounted(t *testing.T) {
	resolver := &fakeResolver{err: fmt.Errorf("not a flac file")}
	placer := &fakePlacer{}
	org, _ := newTestOrganizer(resolver, placer, nil, nil)

	stats, err := org.Run(context.Background(), []string{"/music/a.flac"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Errors)
	}
	if placer.placeCalls != 0 {
		t.Errorf("Expected no placements, got %d", placer.placeCalls)
	}
}

func TestRunPlaceErrorCounted(t *testing.T) {
	placer := &fakePlacer{err: fmt.Errorf("disk full")}
	org, _ := newTestOrganizer(&fakeResolver{}, placer, nil, nil)

	stats, err := org.Run(context.Background(), []string{"/music/a.flac"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Errors)
	}
	if stats.Organized != 0 {
		t.Errorf("Expected 0 organized, got %d", stats.Organized)
	}
}

func TestRunEmptyArguments(t *testing.T) {
	resolver := &fakeResolver{}
	org, _ := newTestOrganizer(resolver, &fakePlacer{}, nil, nil)

	stats, err := org.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Processed() != 0 || stats.Errors != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
}

func TestRunTriggersScan(t *testing.T) {
	scanner := &fakeScanner{}
	cfg := &config.Config{Extension: ".flac", SubsonicURL: "http://localhost:4533"}
	org, _ := newTestOrganizer(&fakeResolver{}, &fakePlacer{}, scanner, cfg)

	if _, err := org.Run(context.Background(), []string{"/music/a.flac"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if scanner.authCalls != 1 {
		t.Errorf("Expected 1 authentication, got %d", scanner.authCalls)
	}
	if scanner.scanCalls != 1 {
		t.Errorf("Expected 1 scan trigger, got %d", scanner.scanCalls)
	}
}

func TestRunNoScanWhenNothingOrganized(t *testing.T) {
	scanner := &fakeScanner{}
	resolver := &fakeResolver{classes: map[string]shared.ResolutionClass{
		"a.flac": shared.ResolutionUnsure,
	}}
	cfg := &config.Config{Extension: ".flac", SubsonicURL: "http://localhost:4533"}
	org, _ := newTestOrganizer(resolver, &fakePlacer{}, scanner, cfg)

	if _, err := org.Run(context.Background(), []string{"/music/a.flac"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if scanner.authCalls != 0 || scanner.scanCalls != 0 {
		t.Errorf("Expected no scan trigger, got %d auth and %d scan calls",
			scanner.authCalls, scanner.scanCalls)
	}
}

func TestRunNoScanOnDryRun(t *testing.T) {
	scanner := &fakeScanner{}
	cfg := &config.Config{Extension: ".flac", SubsonicURL: "http://localhost:4533", DryRun: true}
	org, _ := newTestOrganizer(&fakeResolver{}, &fakePlacer{}, scanner, cfg)

	if _, err := org.Run(context.Background(), []string{"/music/a.flac"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if scanner.authCalls != 0 {
		t.Errorf("Expected no scan trigger on a dry run, got %d auth calls", scanner.authCalls)
	}
}

func TestRunScanFailureWarns(t *testing.T) {
	scanner := &fakeScanner{authErr: fmt.Errorf("wrong credentials")}
	cfg := &config.Config{Extension: ".flac", SubsonicURL: "http://localhost:4533"}
	resolver := &fakeResolver{}
	placer := &fakePlacer{}
	warnings := shared.NewWarningCollector("summary")
	org := NewOrganizer(resolver, placer, scanner, &fakeLogger{}, warnings, cfg)

	if _, err := org.Run(context.Background(), []string{"/music/a.flac"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if scanner.scanCalls != 0 {
		t.Errorf("Expected no scan after a failed authentication, got %d", scanner.scanCalls)
	}
	if warnings.GetWarningCount() != 1 {
		t.Errorf("Expected 1 warning, got %d", warnings.GetWarningCount())
	}
}
