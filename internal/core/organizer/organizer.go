package organizer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"

	"flacsort/internal/config"
	"flacsort/internal/interfaces"
	"flacsort/internal/shared"
)

// Organizer drives one run: it expands the arguments, resolves and places
// each file in turn, and reports what happened. Files are processed
// strictly one at a time, in argument order.
type Organizer struct {
	resolver interfaces.ResolverService
	placer   interfaces.PlacerService
	scanner  interfaces.ScanService // nil when no server is configured
	logger   interfaces.LoggerService
	warnings interfaces.WarningCollectorService
	cfg      *config.Config
}

// NewOrganizer creates an organizer from its collaborators
func NewOrganizer(resolver interfaces.ResolverService, placer interfaces.PlacerService, scanner interfaces.ScanService, logger interfaces.LoggerService, warnings interfaces.WarningCollectorService, cfg *config.Config) *Organizer {
	return &Organizer{
		resolver: resolver,
		placer:   placer,
		scanner:  scanner,
		logger:   logger,
		warnings: warnings,
		cfg:      cfg,
	}
}

// Run organizes all files named by the arguments and returns run statistics.
// Per-file problems are counted, logged and skipped; they never abort the
// run and never change the exit status.
func (o *Organizer) Run(ctx context.Context, args []string) (*shared.RunStats, error) {
	stats := &shared.RunStats{}
	files := o.expandArgs(args, stats)

	if len(files) == 0 {
		o.logger.Warning("Nothing to do")
		o.printSummary(stats)
		return stats, nil
	}

	var bar *pb.ProgressBar
	if shared.IsTTY() && len(files) > 1 {
		bar = pb.New(len(files))
		bar.SetTemplateString(`{{ string . "prefix" }} {{ bar . }} {{ counters . }}`)
		bar.Set("prefix", "Organizing")
		bar.Start()
	}

	for _, path := range files {
		o.processFile(ctx, path, stats)
		if bar != nil {
			bar.Increment()
		}
	}

	if bar != nil {
		bar.Finish()
	}

	o.printSummary(stats)
	o.triggerScan(stats)

	return stats, nil
}

// processFile runs one file through resolution and placement
func (o *Organizer) processFile(ctx context.Context, path string, stats *shared.RunStats) {
	if !strings.EqualFold(filepath.Ext(path), o.cfg.Extension) {
		o.logger.Error("❌ Skipping %s: not a %s file", path, o.cfg.Extension)
		stats.AddError(path, fmt.Errorf("not a %s file", o.cfg.Extension))
		return
	}

	meta, class, err := o.resolver.Resolve(ctx, path)
	if err != nil {
		o.logger.Error("❌ %v", err)
		stats.AddError(path, err)
		return
	}

	if o.cfg.DryRun {
		dest := o.placer.DestinationPath(meta, class, path)
		o.logger.Info("Would place %s -> %s", path, dest)
		o.countClass(class, stats)
		return
	}

	dest, err := o.placer.Place(meta, class, path)
	if errors.Is(err, shared.ErrDestinationExists) {
		o.logger.Warning("⭐ Already exists, skipping: %s", dest)
		stats.Skipped++
		return
	}
	if err != nil {
		o.logger.Error("❌ %v", err)
		stats.AddError(path, err)
		return
	}

	switch class {
	case shared.ResolutionComplete:
		o.logger.Success("✅ %s -> %s", filepath.Base(path), dest)
	case shared.ResolutionUnsure:
		o.logger.Warning("⚠️  Unsure about %s -> %s", filepath.Base(path), dest)
	case shared.ResolutionFailed:
		o.logger.Warning("⚠️  Could not resolve %s -> %s", filepath.Base(path), dest)
	}
	o.countClass(class, stats)
}

// countClass bumps the stats counter matching a resolution class
func (o *Organizer) countClass(class shared.ResolutionClass, stats *shared.RunStats) {
	switch class {
	case shared.ResolutionComplete:
		stats.Organized++
	case shared.ResolutionUnsure:
		stats.Unsure++
	case shared.ResolutionFailed:
		stats.Failed++
	}
}

// expandArgs turns the argument list into concrete file paths. Glob
// patterns are expanded; a pattern matching nothing is counted as a
// failure for that argument.
func (o *Organizer) expandArgs(args []string, stats *shared.RunStats) []string {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			stats.AddError(arg, fmt.Errorf("bad pattern: %w", err))
			continue
		}
		if len(matches) == 0 {
			o.warnings.AddNoMatchWarning(arg)
			stats.AddError(arg, fmt.Errorf("no files matched"))
			continue
		}
		files = append(files, matches...)
	}
	return files
}

// printSummary prints the end-of-run accounting
func (o *Organizer) printSummary(stats *shared.RunStats) {
	fmt.Println()
	o.logger.Info("🎵 Run summary: %d processed, %d failed", stats.Processed(), stats.Errors)
	if stats.Organized > 0 {
		o.logger.Success("  Organized into library: %d", stats.Organized)
	}
	if stats.Unsure > 0 {
		o.logger.Warning("  Needs review (Unsure):  %d", stats.Unsure)
	}
	if stats.Failed > 0 {
		o.logger.Warning("  Needs review (Failed):  %d", stats.Failed)
	}
	if stats.Skipped > 0 {
		o.logger.Warning("  Skipped (exists):       %d", stats.Skipped)
	}
	if len(stats.ErrorItems) > 0 {
		o.logger.Error("  Errors:                 %d", stats.Errors)
		for _, item := range stats.ErrorItems {
			o.logger.Error("    - %s", item)
		}
	}

	o.warnings.PrintSummary()
}

// triggerScan asks the configured media server to pick up the new files
func (o *Organizer) triggerScan(stats *shared.RunStats) {
	if o.scanner == nil || o.cfg.DryRun || stats.Organized == 0 {
		return
	}
	if err := o.scanner.Authenticate(); err != nil {
		o.warnings.AddScanTriggerWarning(err.Error())
		return
	}
	if err := o.scanner.StartScan(); err != nil {
		o.warnings.AddScanTriggerWarning(err.Error())
		return
	}
	o.logger.Info("🔄 Triggered library scan on %s", o.cfg.SubsonicURL)
}
