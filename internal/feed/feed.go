// Package feed fetches remote RSS and Atom feeds for the dashboard widget.
package feed

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"syscall"
	"time"

	"dashboard/config"
	"dashboard/pkg/apperror"
	"dashboard/pkg/logger"
	"dashboard/pkg/tracing"

	"github.com/mmcdole/gofeed"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	maxBodyBytes = 5 << 20
)

type Item struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Content   string     `json:"content"`
	GUID      string     `json:"guid,omitempty"`
	Published *time.Time `json:"published,omitempty"`
}

type Fetcher struct {
	Client     *http.Client
	DefaultURL string
	parser     *gofeed.Parser
}

var errBlockedAddress = errors.New("destination address is not public")

// NewFetcher returns a Fetcher whose client refuses to connect to private,
// loopback, link-local and unspecified addresses. The check runs on the
// resolved address at dial time, so it also covers redirects and DNS names.
func NewFetcher(cfg config.RSSConfig) *Fetcher {
	dialer := &net.Dialer{Timeout: cfg.Timeout, Control: publicOnly}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &Fetcher{
		Client:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		DefaultURL: cfg.DefaultURL,
		parser:     gofeed.NewParser(),
	}
}

func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || blocked(ip) {
		return fmt.Errorf("%w: %s", errBlockedAddress, host)
	}
	return nil
}

func blocked(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

// Fetch returns the first limit items of the feed at rawURL, or of the
// default feed when rawURL is empty.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, limit int) ([]Item, error) {
	ctx, span := tracing.StartSpan(ctx, "feed.Fetch")
	defer span.End()

	if rawURL == "" {
		rawURL = f.DefaultURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperror.Validation("Invalid feed url: must be an absolute http or https URL")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperror.Validation("Invalid feed url")
	}
	req.Header.Set("User-Agent", "dashboard-feed/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.Client.Do(req)
	if err != nil {
		if errors.Is(err, errBlockedAddress) {
			return nil, apperror.Validation("Invalid feed url: private or loopback addresses are not allowed")
		}
		logger.Sugar.Warnf("Failed to fetch feed %s: %v", u.Redacted(), err)
		return nil, apperror.Upstream("Failed to fetch RSS", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.Upstream("Failed to fetch RSS", fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	parsed, err := f.parser.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.Sugar.Warnf("Failed to parse feed %s: %v", u.Redacted(), err)
		return nil, apperror.Upstream("Failed to parse RSS", err)
	}

	items := make([]Item, 0, min(limit, len(parsed.Items)))
	for _, it := range parsed.Items {
		if len(items) == limit {
			break
		}
		items = append(items, toItem(it))
	}
	return items, nil
}

func toItem(it *gofeed.Item) Item {
	content := it.Content
	if content == "" {
		content = it.Description
	}
	item := Item{
		Title:   strings.TrimSpace(it.Title),
		Link:    it.Link,
		Content: plainText(content),
		GUID:    it.GUID,
	}
	switch {
	case it.PublishedParsed != nil:
		t := it.PublishedParsed.UTC()
		item.Published = &t
	case it.UpdatedParsed != nil:
		t := it.UpdatedParsed.UTC()
		item.Published = &t
	}
	return item
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

func plainText(markup string) string {
	text := html.UnescapeString(tagPattern.ReplaceAllString(markup, " "))
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
