package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flacsort/internal/config"
	"flacsort/internal/core/updater"
	"flacsort/internal/services"
	"flacsort/internal/shared"
)

const toolVersion = "1.0.0"

var (
	configFile string
	libraryDir string
	checkDir   string
	debug      bool
	dryRun     bool
	noArt      bool
	asciiNames bool
)

var rootCmd = &cobra.Command{
	Use:     "flacsort [files or globs...]",
	Version: toolVersion,
	Short:   "Sort FLAC files into a clean music library.",
	Long: fmt.Sprintf(`flacsort (v%s)

Sorts FLAC files into an Artist/Album (Year)/NN - Title.flac library tree.
Metadata is resolved from embedded tags first, then from the filename, then
from sibling files in the same directory, and finally from MusicBrainz.
Files that cannot be fully resolved are moved into a check directory for
manual review instead of being guessed at.

Every move is a verified copy: the original is only deleted after the copy
matches it byte for byte and tag for tag.`, toolVersion),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := initConfig()
		container := services.NewServiceContainer(cfg)

		updater.CheckForUpdates(cfg, toolVersion)

		container.Logger.Info("🎵 Sorting into %s (review goes to %s)", cfg.LibraryDir, cfg.CheckDir)
		if cfg.DryRun {
			container.Logger.Warning("⚠️  Dry run: no files will be moved")
		}

		_, err := container.Organizer.Run(context.Background(), args)
		return err
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration, creating the file if missing.",
	Run: func(cmd *cobra.Command, args []string) {
		configService := services.NewConfigService()
		if err := configService.EnsureConfigExists(configFile); err != nil {
			shared.ColorError.Printf("❌ Failed to create config file: %v\n", err)
			return
		}
		cfg, err := configService.LoadConfig(configFile)
		if err != nil {
			shared.ColorError.Printf("❌ Failed to load config from %s: %v\n", configFile, err)
			return
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			shared.ColorError.Printf("❌ Failed to render config: %v\n", err)
			return
		}
		shared.ColorInfo.Printf("Configuration (%s):\n", configFile)
		fmt.Println(string(data))
	},
}

// initConfig loads the config file and applies command-line overrides
func initConfig() *config.Config {
	cfg := &config.Config{}
	if err := config.LoadConfig(configFile, cfg); err != nil {
		shared.ColorError.Printf("❌ Failed to load config from %s: %v\n", configFile, err)
		cfg = config.GetDefaultConfig()
	}

	// Command-line flags override config file
	if libraryDir != "" {
		cfg.LibraryDir = libraryDir
	}
	if checkDir != "" {
		cfg.CheckDir = checkDir
	}
	if noArt {
		cfg.SaveAlbumArt = false
	}
	if asciiNames {
		cfg.ASCIINames = true
	}
	cfg.DryRun = dryRun
	cfg.Debug = debug || shared.IsDebugMode()

	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.json", "Path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&libraryDir, "library", "", "Directory for the organized library")
	rootCmd.Flags().StringVar(&checkDir, "check-dir", "", "Directory for files needing review")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and print destinations without moving files")
	rootCmd.Flags().BoolVar(&noArt, "no-art", false, "Do not extract embedded cover art")
	rootCmd.Flags().BoolVar(&asciiNames, "ascii", false, "Fold accented characters to ASCII in generated names")

	rootCmd.AddCommand(configCmd)
}

func main() {
	shared.InitializeColors()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
