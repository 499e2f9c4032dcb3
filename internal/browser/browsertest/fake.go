// Package browsertest provides an in-memory browser backed by static HTML
// for adapter and session tests.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jpdehyl/BSA-demo/internal/browser"
)

// Site maps absolute URLs to HTML documents.
type Site map[string]string

// Page is a browser.Page that serves documents from a Site.
type Page struct {
	Site    Site
	GotoErr error
	Scrolls int

	current string
	history []string
}

// NewPage returns a page with no current document.
func NewPage(site Site) *Page {
	return &Page{Site: site}
}

func (p *Page) Goto(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.GotoErr != nil {
		return p.GotoErr
	}
	if _, ok := p.Site[target]; !ok {
		return fmt.Errorf("browsertest: no page at %s", target)
	}
	if p.current != "" {
		p.history = append(p.history, p.current)
	}
	p.current = target
	return nil
}

func (p *Page) doc() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(p.Site[p.current]))
}

func (p *Page) WaitFor(_ context.Context, selector string, _ time.Duration) bool {
	doc, err := p.doc()
	if err != nil {
		return false
	}
	return doc.Find(selector).Length() > 0
}

func (p *Page) Content(_ context.Context) (string, error) {
	if p.current == "" {
		return "", fmt.Errorf("browsertest: no document loaded")
	}
	return p.Site[p.current], nil
}

func (p *Page) FollowLink(ctx context.Context, selector string) error {
	doc, err := p.doc()
	if err != nil {
		return err
	}
	href, ok := doc.Find(selector).First().Attr("href")
	if !ok {
		return fmt.Errorf("browsertest: no link matches %q", selector)
	}
	base, err := url.Parse(p.current)
	if err != nil {
		return err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return err
	}
	return p.Goto(ctx, base.ResolveReference(ref).String())
}

func (p *Page) Back(_ context.Context) error {
	if len(p.history) == 0 {
		return fmt.Errorf("browsertest: no history")
	}
	p.current = p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	return nil
}

func (p *Page) AutoScroll(_ context.Context) error {
	p.Scrolls++
	return nil
}

func (p *Page) URL() string { return p.current }

// Connector is a browser.Connector that hands out sessions over a Site and
// counts session lifecycle calls.
type Connector struct {
	Site       Site
	ConnectErr error
	GotoErr    error

	mu        sync.Mutex
	endpoints []string
	opens     int
	closes    int
}

// NewConnector returns a Connector serving site.
func NewConnector(site Site) *Connector {
	return &Connector{Site: site}
}

func (c *Connector) Connect(ctx context.Context, endpoint string) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = append(c.endpoints, endpoint)
	if c.ConnectErr != nil {
		return nil, c.ConnectErr
	}
	c.opens++
	return &session{c: c}, nil
}

// Counts returns the number of sessions opened and closed.
func (c *Connector) Counts() (opens, closes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens, c.closes
}

// Endpoints returns every endpoint dialed.
func (c *Connector) Endpoints() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.endpoints...)
}

type session struct {
	c *Connector
}

func (s *session) NewPage(_ context.Context) (browser.Page, error) {
	p := NewPage(s.c.Site)
	p.GotoErr = s.c.GotoErr
	return p, nil
}

func (s *session) Close() error {
	s.c.mu.Lock()
	s.c.closes++
	s.c.mu.Unlock()
	return nil
}
