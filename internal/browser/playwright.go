package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
)

// autoScrollJS scrolls 400px every 200ms, at most 20 times or until the
// bottom, then returns to the top.
const autoScrollJS = `async () => {
  await new Promise((resolve) => {
    let total = 0;
    let count = 0;
    const timer = setInterval(() => {
      const height = document.body.scrollHeight;
      window.scrollBy(0, 400);
      total += 400;
      count++;
      if (total >= height - window.innerHeight || count >= 20) {
        clearInterval(timer);
        window.scrollTo(0, 0);
        resolve();
      }
    }, 200);
  });
}`

// PlaywrightConnector connects to a remote Chromium over CDP. The local
// driver is started lazily on first use.
type PlaywrightConnector struct {
	once sync.Once
	pw   *playwright.Playwright
	err  error
}

// NewPlaywrightConnector creates a connector. Call Stop on shutdown.
func NewPlaywrightConnector() *PlaywrightConnector {
	return &PlaywrightConnector{}
}

func (c *PlaywrightConnector) start() error {
	c.once.Do(func() {
		c.pw, c.err = playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
		if c.err != nil {
			c.err = eris.Wrap(c.err, "browser: start playwright")
		}
	})
	return c.err
}

// Connect dials endpoint over CDP.
func (c *PlaywrightConnector) Connect(ctx context.Context, endpoint string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.start(); err != nil {
		return nil, err
	}
	b, err := c.pw.Chromium.ConnectOverCDP(endpoint)
	if err != nil {
		return nil, eris.Wrap(err, "browser: connect over cdp")
	}
	return &pwSession{browser: b}, nil
}

// Stop shuts the local driver down.
func (c *PlaywrightConnector) Stop() error {
	if c.pw == nil {
		return nil
	}
	return c.pw.Stop()
}

type pwSession struct {
	browser playwright.Browser
}

func (s *pwSession) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bctx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:         &playwright.Size{Width: ViewportWidth, Height: ViewportHeight},
		UserAgent:        playwright.String(UserAgent),
		ExtraHttpHeaders: ExtraHeaders,
	})
	if err != nil {
		return nil, eris.Wrap(err, "browser: new context")
	}
	p, err := bctx.NewPage()
	if err != nil {
		return nil, eris.Wrap(err, "browser: new page")
	}
	return &pwPage{page: p}, nil
}

func (s *pwSession) Close() error {
	return s.browser.Close()
}

type pwPage struct {
	page playwright.Page
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (p *pwPage) Goto(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   ms(NavigationTimeoutDuration),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return &NavigationTimeout{URL: target, After: NavigationTimeoutDuration, Err: err}
		}
		return eris.Wrapf(err, "browser: goto %s", target)
	}
	return nil
}

func (p *pwPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	_, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: ms(timeout),
	})
	return err == nil
}

func (p *pwPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	if err != nil {
		return "", eris.Wrap(err, "browser: page content")
	}
	return html, nil
}

func (p *pwPage) FollowLink(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.page.Click(selector, playwright.PageClickOptions{Timeout: ms(SecondaryNavTimeout)}); err != nil {
		return eris.Wrapf(err, "browser: click %s", selector)
	}
	// A page that never settles is still usable for extraction.
	_ = p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: ms(SecondaryNavTimeout),
	})
	return nil
}

func (p *pwPage) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.GoBack(playwright.PageGoBackOptions{Timeout: ms(SecondaryNavTimeout)}); err != nil {
		return eris.Wrap(err, "browser: go back")
	}
	return nil
}

func (p *pwPage) AutoScroll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Evaluate(autoScrollJS); err != nil {
		return eris.Wrap(err, "browser: auto scroll")
	}
	return nil
}

func (p *pwPage) URL() string {
	return p.page.URL()
}
