package browse

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/lordzed/achievement-viewer/pkg/errors"
	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/steam"
)

const (
	listingURLFormat = "https://steamhunters.com/apps/%s/achievements"
	iconURLFormat    = "https://cdn.cloudflare.steamstatic.com/steamcommunity/public/images/apps/%s/%s.jpg"
)

// Lister scrapes the achievement listing page with a headless browser
type Lister struct {
	mu      sync.Mutex
	browser *rod.Browser
	timeout time.Duration
	logger  logger.Logger
	launch  func() (string, error)
}

// NewLister creates a browser-backed achievement lister. The browser is
// launched lazily on the first ListAchievements call.
func NewLister(timeout time.Duration, log logger.Logger) *Lister {
	if log == nil {
		log = logger.GetLogger()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Lister{
		timeout: timeout,
		logger:  log,
		launch: func() (string, error) {
			return launcher.New().Headless(true).Launch()
		},
	}
}

// ensureStarted launches and connects the browser once
func (l *Lister) ensureStarted() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser != nil {
		return nil
	}

	controlURL, err := l.launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	l.browser = browser
	l.logger.Debug("Headless browser started")
	return nil
}

// Close shuts the browser down
func (l *Lister) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser == nil {
		return nil
	}
	err := l.browser.Close()
	l.browser = nil
	return err
}

// ListAchievements fetches the rendered listing page for a title and returns
// the achievement set in the same shape the Web API schema adapter produces.
func (l *Lister) ListAchievements(appID string) ([]steam.SchemaAchievement, error) {
	if err := l.ensureStarted(); err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, err.Error(), 0)
	}

	url := fmt.Sprintf(listingURLFormat, appID)

	l.logger.DebugWithFields("loading achievement listing", map[string]interface{}{
		"appid": appID,
		"url":   url,
	})

	page, err := l.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to open listing page: %v", err), 0)
	}
	defer page.Close()

	page = page.Timeout(l.timeout)
	if err := page.WaitLoad(); err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("listing page did not load: %v", err), 0)
	}

	rendered, err := page.HTML()
	if err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to read rendered page: %v", err), 0)
	}

	achievements, err := parseListing(rendered, appID)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, err.Error(), 0)
	}

	l.logger.DebugWithFields("listing page parsed", map[string]interface{}{
		"appid": appID,
		"count": len(achievements),
	})

	return achievements, nil
}
