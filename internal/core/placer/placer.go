package placer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"flacsort/internal/config"
	"flacsort/internal/interfaces"
	"flacsort/internal/shared"
	"flacsort/internal/tagreader"
)

// Placer moves resolved files into the library tree, or into the check
// tree for files that could not be fully resolved. Every move is a copy
// that is verified before the source is deleted.
type Placer struct {
	libraryDir   string
	checkDir     string
	tagReader    interfaces.TagReaderService
	warnings     interfaces.WarningCollectorService
	saveAlbumArt bool
	asciiNames   bool
	debug        bool
}

// NewPlacer creates a placer for the configured library and check trees
func NewPlacer(cfg *config.Config, tagReader interfaces.TagReaderService, warnings interfaces.WarningCollectorService) *Placer {
	return &Placer{
		libraryDir:   cfg.LibraryDir,
		checkDir:     cfg.CheckDir,
		tagReader:    tagReader,
		warnings:     warnings,
		saveAlbumArt: cfg.SaveAlbumArt,
		asciiNames:   cfg.ASCIINames,
		debug:        cfg.Debug,
	}
}

// DestinationPath computes where a file belongs given its resolution class.
// Complete files get Artist/Album (Year)/NN - Title.flac under the library;
// unsure files keep their name under check/Unsure/Artist, failed files
// under check/Failed.
func (p *Placer) DestinationPath(meta *shared.TrackMetadata, class shared.ResolutionClass, sourcePath string) string {
	original := filepath.Base(sourcePath)

	switch class {
	case shared.ResolutionComplete:
		albumDir := p.segment(meta.Album)
		if meta.Year != "" {
			albumDir = fmt.Sprintf("%s (%s)", albumDir, meta.Year)
		}
		return filepath.Join(p.libraryDir, p.segment(meta.Artist), albumDir, p.fileName(meta, original))
	case shared.ResolutionUnsure:
		return filepath.Join(p.checkDir, "Unsure", p.segment(meta.Artist), original)
	default:
		return filepath.Join(p.checkDir, "Failed", original)
	}
}

// Place copies the file to its destination, validates the copy byte for
// byte and tag for tag, and only then removes the source. A validation
// failure removes the copy and keeps the source.
func (p *Placer) Place(meta *shared.TrackMetadata, class shared.ResolutionClass, sourcePath string) (string, error) {
	dest := p.DestinationPath(meta, class, sourcePath)

	if shared.FileExists(dest) {
		if p.warnings != nil {
			p.warnings.AddFileSkippedWarning(sourcePath)
		}
		return dest, shared.ErrDestinationExists
	}

	if err := shared.CreateDirIfNotExists(filepath.Dir(dest)); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := copyFile(sourcePath, dest); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to copy %s: %w", sourcePath, err)
	}

	if err := p.validateCopy(sourcePath, dest); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("copy validation failed for %s: %w", sourcePath, err)
	}

	if err := os.Remove(sourcePath); err != nil {
		return "", fmt.Errorf("failed to remove source %s: %w", sourcePath, err)
	}

	shared.DebugPrint(p.debug, "Placed %s -> %s", sourcePath, dest)

	if class == shared.ResolutionComplete && p.saveAlbumArt {
		p.extractAlbumArt(dest, meta.Album)
	}

	return dest, nil
}

// segment sanitizes one metadata-derived path segment
func (p *Placer) segment(s string) string {
	if p.asciiNames {
		s = shared.FoldToASCII(s)
	}
	return shared.SanitizeName(s)
}

// fileName builds the destination filename. Files whose title never
// resolved keep their original name.
func (p *Placer) fileName(meta *shared.TrackMetadata, original string) string {
	if meta.Title == "" {
		return original
	}
	title := meta.Title
	if p.asciiNames {
		title = shared.FoldToASCII(title)
	}
	return shared.TrackFilename(meta.Track, title)
}

// validateCopy compares source and destination checksums and re-reads the
// destination tags to make sure they survived the copy.
func (p *Placer) validateCopy(src, dst string) error {
	var srcSum, dstSum string

	var g errgroup.Group
	g.Go(func() error {
		sum, err := fileChecksum(src)
		srcSum = sum
		return err
	})
	g.Go(func() error {
		sum, err := fileChecksum(dst)
		dstSum = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if srcSum != dstSum {
		return fmt.Errorf("checksum mismatch: source %s, copy %s", srcSum[:12], dstSum[:12])
	}

	srcTags, err := p.tagReader.Read(src)
	if err != nil {
		return fmt.Errorf("failed to re-read source tags: %w", err)
	}
	dstTags, err := p.tagReader.Read(dst)
	if err != nil {
		return fmt.Errorf("failed to read copied tags: %w", err)
	}
	if !tagreader.Equal(srcTags, dstTags) {
		return fmt.Errorf("tag mismatch between source and copy")
	}

	return nil
}

// extractAlbumArt writes the embedded front cover next to the placed file
// as cover.jpg, once per album directory. Failures only warn.
func (p *Placer) extractAlbumArt(destFile, album string) {
	coverPath := filepath.Join(filepath.Dir(destFile), "cover.jpg")
	if shared.FileExists(coverPath) {
		return
	}

	data, err := p.tagReader.ReadFrontCover(destFile)
	if err != nil {
		if p.warnings != nil {
			p.warnings.AddCoverArtWarning(album, err.Error())
		}
		return
	}
	if len(data) == 0 {
		return
	}

	if err := os.WriteFile(coverPath, data, 0644); err != nil {
		if p.warnings != nil {
			p.warnings.AddCoverArtWarning(album, err.Error())
		}
	}
}

// copyFile copies src to dst, syncing the result to disk
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// fileChecksum returns the hex SHA-256 of a file
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
