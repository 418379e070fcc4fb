// Package httpfetch provides a fetch.Fetcher backed by a plain HTTP client
// with charset-aware decoding and goquery-based text extraction. It is the
// default fetcher; script-heavy sites that need rendering are served by a
// browser-backed implementation behind the same interface.
package httpfetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"sitefinder/pkg/fetch"
	"sitefinder/pkg/serrors"
)

// Options configure the HTTP fetcher.
type Options struct {
	// Timeout bounds one fetch including redirects and body read.
	Timeout time.Duration
	// MaxBodyBytes bounds how much of a response body is read.
	MaxBodyBytes int64
	// UserAgent is sent on every request.
	UserAgent string
	// MaxRedirects bounds redirect chains.
	MaxRedirects int
}

// withDefaults fills zero fields with usable values.
func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 2 << 20 // 2 MiB
	}
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0 (compatible; sitefinder/1.0)"
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = 10
	}

	return o
}

// Client fetches pages over HTTP. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// New constructs a Client with the given options.
func New(opts Options) *Client {
	opts = opts.withDefaults()

	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= opts.MaxRedirects {
					return errors.New("too many redirects")
				}

				return nil
			},
		},
	}
}

// Fetch retrieves url and extracts its title and visible text. Navigation
// failures map to serrors kinds: timeouts to ErrTimeout, HTTP 429 to
// ErrRateLimited, HTTP 403 and CAPTCHA interstitials to ErrBlocked, other
// non-2xx statuses to ErrUnavailable.
func (c *Client) Fetch(ctx context.Context, url string) (*fetch.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return nil, serrors.Wrap(serrors.ErrTimeout, err, "fetching %q", url)
		}

		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "fetching %q", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "reading body of %q", url)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, serrors.With(serrors.ErrRateLimited, "fetch of %q rate limited", url)
	case resp.StatusCode == http.StatusForbidden:
		return nil, serrors.With(serrors.ErrBlocked, "fetch of %q blocked", url)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, serrors.With(serrors.ErrUnavailable, "fetch of %q returned status %d", url, resp.StatusCode)
	}

	page, err := ParsePage(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "parsing body of %q", url)
	}
	page.FinalURL = resp.Request.URL.String()
	page.StatusCode = resp.StatusCode

	if looksLikeCaptcha(page) {
		return nil, serrors.With(serrors.ErrBlocked, "fetch of %q served a captcha interstitial", url)
	}

	return page, nil
}

// ParsePage decodes body according to contentType and extracts title and
// visible text. Exported so browser-backed fetchers can reuse the extraction.
func ParsePage(body []byte, contentType string) (*fetch.Page, error) {
	reader, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		// Undeclared or unknown charset: fall back to the raw bytes.
		reader = strings.NewReader(string(body))
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()

	return &fetch.Page{
		HTML:        string(body),
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		VisibleText: collapseWhitespace(doc.Find("body").Text()),
	}, nil
}

// captchaMarkers are title/text fragments of common anti-bot interstitials.
var captchaMarkers = []string{
	"verify you are human",
	"checking your browser",
	"are you a robot",
	"attention required | cloudflare",
	"captcha",
}

// looksLikeCaptcha reports whether the page is an anti-bot interstitial
// rather than content.
func looksLikeCaptcha(page *fetch.Page) bool {
	title := strings.ToLower(page.Title)
	for _, m := range captchaMarkers {
		if strings.Contains(title, m) {
			return true
		}
	}

	return false
}

// collapseWhitespace flattens runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Ensure Client conforms to the fetch.Fetcher interface at compile time.
var _ fetch.Fetcher = (*Client)(nil)
