package preview

import (
	"BuilderCentral/internal/api/config"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"
)

const (
	maxDescriptionLen = 300
	maxBodyBytes      = 2 << 20
)

var (
	ErrUnsupportedURL = errors.New("only http and https links can be previewed")
	ErrBlockedAddress = errors.New("link points to a private or local address")
	spaceRe           = regexp.MustCompile(`\s+`)

	// 100.64.0.0/10 运营商 NAT 段
	sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")
)

// LinkPreview 页面摘要
type LinkPreview struct {
	URL         string
	Title       string
	Description string
	Image       string
	SiteName    string
}

// Fetcher 抓取页面并提取 OpenGraph 信息
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(cfg config.PreviewConfig) *Fetcher {
	return newFetcher(cfg, false)
}

// newFetcher allowPrivate 只在测试中打开，用于访问本地 httptest 服务
func newFetcher(cfg config.PreviewConfig, allowPrivate bool) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dialer := &net.Dialer{Timeout: timeout}
	if !allowPrivate {
		// 每次建连都校验解析后的地址，重定向和 DNS 重绑定同样覆盖
		dialer.Control = guardAddress
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
	}

	client := resty.New().
		SetTransport(transport).
		SetTimeout(timeout).
		SetResponseBodyLimit(maxBodyBytes).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &Fetcher{client: client}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*LinkPreview, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return nil, ErrUnsupportedURL
	}

	resp, err := f.client.R().SetContext(ctx).Get(pageURL.String())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL.Host, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL.Host, resp.StatusCode())
	}

	return Parse(string(resp.Body()), pageURL), nil
}

// guardAddress 拒绝回环、内网、链路本地、组播与未指定地址
func guardAddress(_, address string, _ syscall.RawConn) error {
	addrPort, err := netip.ParseAddrPort(address)
	if err != nil {
		return ErrBlockedAddress
	}
	if !publicAddr(addrPort.Addr()) {
		return ErrBlockedAddress
	}
	return nil
}

func publicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsInterfaceLocalMulticast() &&
		!addr.IsMulticast() &&
		!addr.IsUnspecified() &&
		!sharedAddressSpace.Contains(addr)
}

// Parse 优先 OpenGraph，其次 <title>/<meta name=description>，正文摘要兜底
func Parse(html string, pageURL *url.URL) *LinkPreview {
	result := &LinkPreview{URL: pageURL.String(), SiteName: pageURL.Hostname()}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		result.Title = firstNonEmpty(
			metaContent(doc, "property", "og:title"),
			metaContent(doc, "name", "twitter:title"),
			doc.Find("title").First().Text(),
		)
		result.Description = firstNonEmpty(
			metaContent(doc, "property", "og:description"),
			metaContent(doc, "name", "description"),
		)
		result.Image = resolve(pageURL, firstNonEmpty(
			metaContent(doc, "property", "og:image"),
			metaContent(doc, "name", "twitter:image"),
		))
		if site := metaContent(doc, "property", "og:site_name"); site != "" {
			result.SiteName = site
		}
	}

	if result.Title == "" || result.Description == "" {
		if article, err := readability.FromReader(strings.NewReader(html), pageURL); err == nil {
			if result.Title == "" {
				result.Title = clean(article.Title)
			}
			if result.Description == "" {
				result.Description = clean(article.TextContent)
			}
		}
	}

	result.Title = clean(result.Title)
	result.Description = truncate(clean(result.Description), maxDescriptionLen)
	return result
}

func metaContent(doc *goquery.Document, attr, value string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[%s="%s"]`, attr, value)).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// resolve 相对地址转为绝对地址
func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}

func clean(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
