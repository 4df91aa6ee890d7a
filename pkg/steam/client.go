package steam

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lordzed/achievement-viewer/pkg/errors"
	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/retry"
)

// Client talks to the Steam Web API and community endpoints
type Client struct {
	httpClient    *http.Client
	profileClient *http.Client
	headers       map[string]string
	apiKey        string
	retrier       *retry.Retrier
	logger        logger.Logger
}

// Options configures a Client
type Options struct {
	// APIKey enables the credentialed Web API endpoints; may be empty
	APIKey string
	// RequestTimeout bounds JSON/XML endpoint calls
	RequestTimeout time.Duration
	// ProfileTimeout bounds donor profile-page fetches, which render more data
	ProfileTimeout time.Duration
	// MaxRetries bounds retry attempts for transient failures
	MaxRetries int
	// UserAgent overrides the default browser user agent
	UserAgent string
}

// NewClient creates a new Steam client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.ProfileTimeout <= 0 {
		opts.ProfileTimeout = 15 * time.Second
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	}

	retryCfg := &retry.Config{
		MaxAttempts: opts.MaxRetries,
		Backoff:     retry.DefaultExponentialBackoff(),
		RetryIf:     retry.DefaultRetryIf,
		Context:     context.Background(),
		Logger:      log,
	}
	if retryCfg.MaxAttempts <= 0 {
		retryCfg.MaxAttempts = 1
	}

	return &Client{
		httpClient:    &http.Client{Timeout: opts.RequestTimeout},
		profileClient: &http.Client{Timeout: opts.ProfileTimeout},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		apiKey:  opts.APIKey,
		retrier: retry.NewRetrier(retryCfg),
		logger:  log,
	}
}

// HasAPIKey reports whether the credentialed endpoints can be used
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// get performs a GET request against the given client with the configured headers
func (c *Client) get(httpClient *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// fetchBody performs a GET with retry and returns the response body for 200s
func (c *Client) fetchBody(httpClient *http.Client, url string) ([]byte, error) {
	var body []byte

	err := c.retrier.Do(func() error {
		resp, err := c.get(httpClient, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errors.FromStatusCode(resp.StatusCode, fmt.Sprintf("unexpected status for %s", url))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(url string, target interface{}) error {
	body, err := c.fetchBody(c.httpClient, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.DebugWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse JSON: %v", err), 0)
	}

	return nil
}

// FetchStoreDetails fetches title name and header image from the store API.
// A title unknown to the store is reported as not found, not as a zero record.
func (c *Client) FetchStoreDetails(appID string) (*GameDetails, error) {
	var raw map[string]storeDetailsEntry
	if err := c.getJSON(StoreDetailsURL(appID), &raw); err != nil {
		return nil, err
	}

	entry, ok := raw[appID]
	if !ok || !entry.Success {
		return nil, errors.New(errors.ErrorTypeNotFound, fmt.Sprintf("store has no data for app %s", appID), 0)
	}

	return &GameDetails{
		Name: entry.Data.Name,
		Icon: entry.Data.HeaderImage,
	}, nil
}

// FetchXMLSupplement fetches the community achievements XML for a title and
// returns a partial record per api_name. The XML never carries hidden flags,
// so Hidden is always false here; the authoritative list overrides it.
func (c *Client) FetchXMLSupplement(appID string) (map[string]Achievement, error) {
	body, err := c.fetchBody(c.httpClient, XMLStatsURL(appID))
	if err != nil {
		return nil, err
	}

	var stats xmlStats
	if err := xml.Unmarshal(body, &stats); err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse achievements XML: %v", err), 0)
	}

	supplement := make(map[string]Achievement, len(stats.Achievements))
	for _, ach := range stats.Achievements {
		if ach.APIName == "" {
			continue
		}
		supplement[ach.APIName] = Achievement{
			Name:        ach.Name,
			Description: ach.Description,
			Icon:        ach.IconOpen,
			IconGray:    ach.IconClosed,
			Hidden:      false,
		}
	}

	return supplement, nil
}

// FetchSchema fetches the authoritative achievement list for a title via the
// credentialed Web API. Returns an auth error when no key is configured.
func (c *Client) FetchSchema(appID string) ([]SchemaAchievement, error) {
	if c.apiKey == "" {
		return nil, errors.New(errors.ErrorTypeAuth, "no API key configured", 0)
	}

	var raw schemaResponse
	if err := c.getJSON(SchemaURL(c.apiKey, appID), &raw); err != nil {
		return nil, err
	}

	entries := raw.Game.AvailableGameStats.Achievements
	achievements := make([]SchemaAchievement, 0, len(entries))
	for _, entry := range entries {
		displayName := entry.DisplayName
		if displayName == "" {
			displayName = entry.Name
		}
		achievements = append(achievements, SchemaAchievement{
			APIName:     entry.Name,
			DisplayName: displayName,
			Description: entry.Description,
			Icon:        entry.Icon,
			IconGray:    entry.IconGray,
			Hidden:      entry.Hidden == 1,
		})
	}

	return achievements, nil
}

// ListAchievements implements the authoritative lister contract over FetchSchema
func (c *Client) ListAchievements(appID string) ([]SchemaAchievement, error) {
	return c.FetchSchema(appID)
}

// FetchGlobalPercentages fetches global unlock percentages keyed by api_name
func (c *Client) FetchGlobalPercentages(appID string) (map[string]float64, error) {
	var raw percentResponse
	if err := c.getJSON(GlobalPercentagesURL(appID), &raw); err != nil {
		return nil, err
	}

	percents := make(map[string]float64, len(raw.AchievementPercentages.Achievements))
	for _, entry := range raw.AchievementPercentages.Achievements {
		if entry.Name == "" {
			continue
		}
		percents[entry.Name] = entry.Percent
	}

	return percents, nil
}
