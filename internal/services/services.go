package services

import (
	"fmt"
	"time"

	"flacsort/internal/api/musicbrainz"
	"flacsort/internal/api/subsonic"
	"flacsort/internal/config"
	"flacsort/internal/core/organizer"
	"flacsort/internal/core/placer"
	"flacsort/internal/core/resolver"
	"flacsort/internal/interfaces"
	"flacsort/internal/shared"
	"flacsort/internal/tagreader"
)

// ServiceContainer holds all application services
type ServiceContainer struct {
	Config           *ConfigService
	TagReader        interfaces.TagReaderService
	Lookup           interfaces.LookupService
	Contexts         interfaces.ContextService
	Resolver         interfaces.ResolverService
	Placer           interfaces.PlacerService
	Scanner          interfaces.ScanService // nil when no server is configured
	Organizer        *organizer.Organizer
	Logger           interfaces.LoggerService
	WarningCollector interfaces.WarningCollectorService
}

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(cfg *config.Config) *ServiceContainer {
	// Create logger first as other services may need it
	logger := NewConsoleLogger()
	logger.SetDebugMode(cfg.Debug)

	// Create warning collector
	warningCollector := shared.NewWarningCollector(cfg.WarningBehavior)

	// Create tag reader
	tagReader := tagreader.NewReader()

	// Create lookup client
	mbConfig := musicbrainz.DefaultConfig()
	mbConfig.BaseURL = cfg.MusicBrainzURL
	mbConfig.UserAgent = cfg.UserAgent
	mbConfig.RateLimit = time.Duration(cfg.RateLimitMs) * time.Millisecond
	mbConfig.Timeout = time.Duration(cfg.LookupTimeoutSec) * time.Second
	mbConfig.MaxRetries = cfg.MaxRetryAttempts
	mbConfig.Debug = cfg.Debug
	lookup := musicbrainz.NewClientWithConfig(mbConfig)

	// Create the album context resolver
	contexts := resolver.NewContextResolver(lookup, warningCollector, cfg.Extension, cfg.Debug)

	// Create the resolution pipeline
	pipeline := resolver.NewPipeline(tagReader, lookup, contexts, warningCollector, cfg.Debug)

	// Create the placer
	filePlacer := placer.NewPlacer(cfg, tagReader, warningCollector)

	// Create the scan trigger when a server is configured
	var scanner interfaces.ScanService
	if cfg.SubsonicURL != "" {
		scanner = subsonic.NewClient(cfg.SubsonicURL, cfg.SubsonicUsername, cfg.SubsonicPassword)
	}

	// Create the organizer
	org := organizer.NewOrganizer(pipeline, filePlacer, scanner, logger, warningCollector, cfg)

	return &ServiceContainer{
		Config:           NewConfigService(),
		TagReader:        tagReader,
		Lookup:           lookup,
		Contexts:         contexts,
		Resolver:         pipeline,
		Placer:           filePlacer,
		Scanner:          scanner,
		Organizer:        org,
		Logger:           logger,
		WarningCollector: warningCollector,
	}
}

// ConfigService implementation
type ConfigService struct{}

func NewConfigService() *ConfigService {
	return &ConfigService{}
}

func (cs *ConfigService) LoadConfig(configFile string) (*config.Config, error) {
	cfg := &config.Config{}
	return cfg, config.LoadConfig(configFile, cfg)
}

func (cs *ConfigService) SaveConfig(configFile string, cfg *config.Config) error {
	return config.SaveConfig(configFile, cfg)
}

func (cs *ConfigService) ValidateConfig(cfg *config.Config) error {
	if cfg.LibraryDir == "" {
		return fmt.Errorf("library directory is required")
	}
	if cfg.CheckDir == "" {
		return fmt.Errorf("check directory is required")
	}
	if cfg.MusicBrainzURL == "" {
		return fmt.Errorf("MusicBrainz URL is required")
	}
	switch cfg.WarningBehavior {
	case "immediate", "summary", "silent":
	default:
		return fmt.Errorf("invalid warning behavior: %s", cfg.WarningBehavior)
	}
	return nil
}

func (cs *ConfigService) GetDefaultConfig() *config.Config {
	return config.GetDefaultConfig()
}

func (cs *ConfigService) EnsureConfigExists(configFile string) error {
	if !shared.FileExists(configFile) {
		return cs.SaveConfig(configFile, cs.GetDefaultConfig())
	}
	return nil
}

// ConsoleLogger implementation
type ConsoleLogger struct {
	debugMode bool
}

func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{debugMode: false}
}

func (cl *ConsoleLogger) Info(message string, args ...interface{}) {
	shared.ColorInfo.Printf(message+"\n", args...)
}

func (cl *ConsoleLogger) Warning(message string, args ...interface{}) {
	shared.ColorWarning.Printf(message+"\n", args...)
}

func (cl *ConsoleLogger) Error(message string, args ...interface{}) {
	shared.ColorError.Printf(message+"\n", args...)
}

func (cl *ConsoleLogger) Debug(message string, args ...interface{}) {
	if cl.debugMode {
		shared.ColorDebug.Printf("🐛 DEBUG: "+message+"\n", args...)
	}
}

func (cl *ConsoleLogger) Success(message string, args ...interface{}) {
	shared.ColorSuccess.Printf(message+"\n", args...)
}

func (cl *ConsoleLogger) SetDebugMode(enabled bool) {
	cl.debugMode = enabled
}
