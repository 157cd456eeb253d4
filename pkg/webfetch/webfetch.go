// Package webfetch is a thin HTTP wrapper shared by the scrapers and the
// website analyzer: it sends browser-looking requests, measures load time,
// counts redirects, and extracts the page title.
package webfetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Body cap keeps memory bounded when a site serves something huge.
const maxBodyBytes = 50 * 1024

type Header struct {
	Name  string
	Value string
}

type Request struct {
	URL     string
	Method  string
	Headers []Header
}

type Response struct {
	StatusCode int
	FinalURL   string
	LoadTimeMS int
	Redirects  int
	Title      string
	BodyString string
	BodyLength int
}

var proxyURL *url.URL

// SetupProxy routes every client built after this call through an HTTP proxy.
func SetupProxy(proxy string) error {
	u, err := url.Parse(proxy)
	if err != nil {
		return err
	}
	proxyURL = u
	return nil
}

// NewClient builds a retrying HTTP client with sane defaults for scraping.
// Retry logging goes through retryablehttp's default logger unless silenced.
func NewClient(timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 2 * time.Second
	c.RetryWaitMax = 10 * time.Second
	c.HTTPClient.Timeout = timeout
	c.Logger = nil
	if proxyURL != nil {
		c.HTTPClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	}
	return c
}

// Send performs the request, following redirects, and returns a measured
// response. The body is capped at 50KB.
func Send(ctx context.Context, req *Request, client *retryablehttp.Client) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	hreq, err := retryablehttp.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, err
	}

	hreq.Header.Set("User-Agent", userAgent)
	hreq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	hreq.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for _, h := range req.Headers {
		hreq.Header.Add(h.Name, h.Value)
	}

	// Redirect counting: the hook is replaced per call, so don't share one
	// client across goroutines if you care about the Redirects field.
	redirects := 0
	client.HTTPClient.CheckRedirect = func(r *http.Request, via []*http.Request) error {
		redirects = len(via)
		if len(via) >= 10 {
			return http.ErrUseLastResponse
		}
		return nil
	}

	start := time.Now()
	resp, err := client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	res := &Response{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		LoadTimeMS: int(elapsed.Milliseconds()),
		Redirects:  redirects,
		BodyString: string(bodyBytes),
	}
	res.BodyLength = utf8.RuneCountInString(res.BodyString)

	if title, ok := htmlTitle(res.BodyString); ok {
		title = strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")
		res.Title = strings.ToValidUTF8(strings.TrimSpace(title), "")
	}

	return res, nil
}

func htmlTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	return findTitle(doc)
}

func findTitle(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title, ok := findTitle(c); ok {
			return title, ok
		}
	}
	return "", false
}
