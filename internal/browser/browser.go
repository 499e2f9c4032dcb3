// Package browser manages remote headless-browser sessions. Every session
// opened through a Manager must be closed; WithSession guarantees that on
// every exit path.
package browser

import (
	"context"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/resilience"
)

const (
	// DefaultHost is the remote browser endpoint host.
	DefaultHost = "chrome.browserless.io"
	// NavigationTimeoutDuration bounds every Goto.
	NavigationTimeoutDuration = 30 * time.Second
	// SecondaryNavTimeout bounds best-effort link following.
	SecondaryNavTimeout = 10 * time.Second
	// DefaultWaitTimeout is the default bound for selector waits.
	DefaultWaitTimeout = 10 * time.Second

	ViewportWidth  = 1920
	ViewportHeight = 1080
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ExtraHeaders are sent with every page request.
var ExtraHeaders = map[string]string{
	"Accept-Language": "en-US,en;q=0.9",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
}

// Page is a live browser tab positioned at some URL.
type Page interface {
	// Goto navigates and waits for the network to go nearly idle. A
	// deadline overrun returns *NavigationTimeout.
	Goto(ctx context.Context, url string) error
	// WaitFor reports whether selector matched within timeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) bool
	// Content returns the current document HTML.
	Content(ctx context.Context) (string, error)
	// FollowLink clicks the first element matching selector and waits for
	// the resulting navigation.
	FollowLink(ctx context.Context, selector string) error
	// Back returns to the previous page.
	Back(ctx context.Context) error
	// AutoScroll scrolls down in steps to trigger lazy loading, then back
	// to the top.
	AutoScroll(ctx context.Context) error
	// URL returns the current location.
	URL() string
}

// Session is one remote browser connection.
type Session interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Connector dials a remote browser endpoint.
type Connector interface {
	Connect(ctx context.Context, endpoint string) (Session, error)
}

// Opener opens configured sessions.
type Opener interface {
	Open(ctx context.Context, opts Options) (Session, error)
}

// Options configure one remote session.
type Options struct {
	Stealth  bool
	Proxy    model.ProxyClass
	BlockAds bool
	Timeout  time.Duration
}

// DefaultOptions returns stealth on, residential proxy, ad blocking on and
// a 60s session timeout.
func DefaultOptions() Options {
	return Options{
		Stealth:  true,
		Proxy:    model.ProxyResidential,
		BlockAds: true,
		Timeout:  60 * time.Second,
	}
}

// OptionsFor maps request options onto session options.
func OptionsFor(ro model.RequestOptions) Options {
	o := DefaultOptions()
	o.Stealth = ro.Stealth
	if ro.Proxy != "" {
		o.Proxy = ro.Proxy
	}
	return o
}

// Config holds the endpoint credentials.
type Config struct {
	Token string
	Host  string
}

// Endpoint builds the connect string for opts.
func Endpoint(cfg Config, opts Options) (string, error) {
	if cfg.Token == "" {
		return "", &ConfigurationError{Setting: "browserless.token"}
	}
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultOptions().Timeout
	}

	q := url.Values{}
	q.Set("token", cfg.Token)
	q.Set("stealth", strconv.FormatBool(opts.Stealth))
	q.Set("blockAds", strconv.FormatBool(opts.BlockAds))
	q.Set("timeout", strconv.FormatInt(timeout.Milliseconds(), 10))
	if opts.Proxy != "" && opts.Proxy != model.ProxyNone {
		q.Set("proxy", string(opts.Proxy))
	}
	return "wss://" + host + "?" + q.Encode(), nil
}

// SessionStats counts session lifecycle events.
type SessionStats struct {
	Opened int64 `json:"opened"`
	Closed int64 `json:"closed"`
}

// Active returns sessions opened but not yet closed.
func (s SessionStats) Active() int64 { return s.Opened - s.Closed }

// Manager opens sessions through a Connector behind a circuit breaker.
type Manager struct {
	cfg       Config
	connector Connector
	breaker   *resilience.Breaker

	opened atomic.Int64
	closed atomic.Int64
}

// NewManager creates a Manager.
func NewManager(cfg Config, connector Connector) *Manager {
	return &Manager{
		cfg:       cfg,
		connector: connector,
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			Name:      "browser",
			Threshold: 5,
			Cooldown:  30 * time.Second,
		}),
	}
}

// Configured reports whether an endpoint token is set.
func (m *Manager) Configured() bool { return m.cfg.Token != "" }

// Open connects a new session. A missing token returns *ConfigurationError
// without touching the network.
func (m *Manager) Open(ctx context.Context, opts Options) (Session, error) {
	endpoint, err := Endpoint(m.cfg, opts)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("browser: connecting",
		zap.Bool("stealth", opts.Stealth),
		zap.String("proxy", string(opts.Proxy)),
	)

	sess, err := resilience.Call(ctx, m.breaker, func(ctx context.Context) (Session, error) {
		return m.connector.Connect(ctx, endpoint)
	})
	if err != nil {
		return nil, eris.Wrap(err, "browser: open session")
	}
	m.opened.Add(1)
	return &trackedSession{Session: sess, m: m}, nil
}

// Stats returns lifecycle counters.
func (m *Manager) Stats() SessionStats {
	return SessionStats{Opened: m.opened.Load(), Closed: m.closed.Load()}
}

type trackedSession struct {
	Session
	m      *Manager
	closed atomic.Bool
}

func (s *trackedSession) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.m.closed.Add(1)
	return s.Session.Close()
}
