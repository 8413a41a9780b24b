package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flacsort/internal/shared"
)

// 1. Constants and types
const (
	defaultBaseURL      = "https://musicbrainz.org/ws/2/"
	defaultUserAgent    = "flacsort/1.0"
	defaultTimeout      = 10 * time.Second
	defaultRateLimit    = time.Second // MusicBrainz allows 1 anonymous request per second
	defaultMaxRetries   = 3
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = 30 * time.Second
)

// Config holds configuration for MusicBrainz API client
type Config struct {
	BaseURL      string        `json:"base_url"`
	UserAgent    string        `json:"user_agent"`
	Timeout      time.Duration `json:"timeout"`
	MaxRetries   int           `json:"max_retries"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	RateLimit    time.Duration `json:"rate_limit"`
	Debug        bool          `json:"debug"`
}

// Client represents a MusicBrainz API client. Queries are issued one at a
// time; the limiter makes every call, including the first, wait out the
// configured interval.
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
}

// 2. Constructor and configuration

// DefaultConfig returns sensible defaults for MusicBrainz API client
func DefaultConfig() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		UserAgent:    defaultUserAgent,
		Timeout:      defaultTimeout,
		MaxRetries:   defaultMaxRetries,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		RateLimit:    defaultRateLimit,
		Debug:        false,
	}
}

// NewClient creates a new MusicBrainz API client with default configuration
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new MusicBrainz API client with custom configuration
func NewClientWithConfig(config Config) *Client {
	limiter := rate.NewLimiter(rate.Every(config.RateLimit), 1)
	// Drain the initial token so the first query waits like every other.
	limiter.Allow()
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		rateLimiter: limiter,
	}
}

// GetConfig returns the current client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// SetDebug enables or disables debug logging for the client
func (c *Client) SetDebug(debug bool) {
	c.config.Debug = debug
}

// 3. Core HTTP methods (private)

// makeRequest creates and executes an HTTP request with proper headers
func (c *Client) makeRequest(ctx context.Context, path string) (*http.Response, error) {
	reqURL, err := url.Parse(c.config.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// get makes a single GET request to the MusicBrainz API
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	// Wait for rate limiter
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.makeRequest(ctx, path)
	if err != nil {
		// Handle network timeouts
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, &shared.HTTPError{
				StatusCode: http.StatusGatewayTimeout,
				Status:     "Gateway Timeout",
				Message:    err.Error(),
			}
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(body)
		if len(message) > 200 {
			message = message[:200] + "..."
		}
		return nil, &shared.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    message,
		}
	}

	return body, nil
}

// getWithRetry makes a GET request with retry logic
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var result []byte
	var err error

	retryErr := shared.RetryWithBackoffForHTTPWithDebug(
		c.config.MaxRetries,
		c.config.InitialDelay,
		c.config.MaxDelay,
		func() error {
			result, err = c.get(ctx, path)
			return err
		},
		c.config.Debug,
	)

	if retryErr != nil {
		return nil, retryErr
	}
	return result, nil
}

// 4. Public API methods

// SearchRecording searches for a recording by artist and title and returns
// the best-ranked match. A nil match with nil error means the query cleanly
// found nothing; a non-nil error means the query itself failed.
func (c *Client) SearchRecording(ctx context.Context, artist, title string) (*shared.RecordingMatch, error) {
	if artist == "" || title == "" {
		return nil, fmt.Errorf("artist and title cannot be empty")
	}

	query := fmt.Sprintf("artist:\"%s\" AND recording:\"%s\"", artist, title)
	path := fmt.Sprintf("recording?query=%s&limit=1", url.QueryEscape(query))

	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to search recording: %w", err)
	}

	var searchResult struct {
		Recordings []Recording `json:"recordings"`
	}
	if err := json.Unmarshal(body, &searchResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recording search result: %w", err)
	}

	if len(searchResult.Recordings) == 0 {
		return nil, nil
	}

	return recordingToMatch(&searchResult.Recordings[0]), nil
}

// SearchRelease searches for a release by artist and album title and returns
// the best-ranked match. Same contract as SearchRecording: nil match with
// nil error on an empty result set.
func (c *Client) SearchRelease(ctx context.Context, artist, album string) (*shared.ReleaseMatch, error) {
	if artist == "" || album == "" {
		return nil, fmt.Errorf("artist and album cannot be empty")
	}

	query := fmt.Sprintf("artist:\"%s\" AND release:\"%s\"", artist, album)
	path := fmt.Sprintf("release?query=%s&limit=1", url.QueryEscape(query))

	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to search release: %w", err)
	}

	var searchResult struct {
		Releases []Release `json:"releases"`
	}
	if err := json.Unmarshal(body, &searchResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal release search result: %w", err)
	}

	if len(searchResult.Releases) == 0 {
		return nil, nil
	}

	release := &searchResult.Releases[0]
	return &shared.ReleaseMatch{
		Artist: creditName(release.ArtistCredit),
		Album:  release.Title,
		Year:   shared.LeadingYear(release.Date),
	}, nil
}

// 5. Helper/utility functions

// recordingToMatch flattens a recording search hit into a match. Fields the
// response does not carry stay empty.
func recordingToMatch(rec *Recording) *shared.RecordingMatch {
	match := &shared.RecordingMatch{
		Artist: creditName(rec.ArtistCredit),
	}
	if len(rec.Releases) > 0 {
		release := &rec.Releases[0]
		match.Album = release.Title
		match.Year = shared.LeadingYear(release.Date)
		if len(release.Media) > 0 && len(release.Media[0].Tracks) > 0 {
			match.Track = parseTrackNumber(release.Media[0].Tracks[0].Number)
		}
	}
	return match
}

// creditName returns the first credited artist's name
func creditName(credits []ArtistCredit) string {
	if len(credits) == 0 {
		return ""
	}
	return credits[0].Artist.Name
}

// parseTrackNumber converts a media track number like "7" or "A4" to an int
func parseTrackNumber(number string) int {
	number = strings.TrimSpace(number)
	n, err := strconv.Atoi(number)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Data types

// Artist represents a MusicBrainz artist
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArtistCredit represents artist credit information
type ArtistCredit struct {
	Artist Artist `json:"artist"`
}

// MediaTrack represents a track within media
type MediaTrack struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Title  string `json:"title"`
}

// Media represents media information
type Media struct {
	Format string       `json:"format"`
	Tracks []MediaTrack `json:"tracks"`
}

// RecordingRelease represents release information within a recording
type RecordingRelease struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Media        []Media        `json:"media"`
}

// Recording represents a MusicBrainz recording
type Recording struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	ArtistCredit []ArtistCredit     `json:"artist-credit"`
	Releases     []RecordingRelease `json:"releases"`
	Length       int                `json:"length"` // Duration in milliseconds
}

// Release represents a MusicBrainz release (album)
type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Media        []Media        `json:"media"`
}
