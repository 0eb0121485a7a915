package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

const (
	fetchTimeout   = 30 * time.Second
	maxRedirects   = 10
	fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// FetchError covers transport failures and non-success HTTP statuses.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the body was retrieved but is neither RSS nor Atom.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.URL, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

type FeedFetcher struct {
	client *http.Client
}

func NewFeedFetcher() *FeedFetcher {
	return &FeedFetcher{
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

func normalizeFeedURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("empty feed url")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid feed url: %q", raw)
	}
	return parsed.String(), nil
}

// FetchItems downloads one feed and returns its entries normalized for
// storage. The dedup key is the entry's own identifier, or its link when the
// feed carries no identifiers.
func (f *FeedFetcher) FetchItems(feedURL string) ([]FeedItem, error) {
	normalized, err := normalizeFeedURL(feedURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, normalized, nil)
	if err != nil {
		return nil, &FetchError{URL: normalized, Err: err}
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: normalized, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: normalized, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: normalized, Err: err}
	}

	items, err := parseFeedBody(body)
	if err != nil {
		return nil, &ParseError{URL: normalized, Err: err}
	}
	return items, nil
}

// parseFeedBody tries RSS first and falls back to Atom only when the RSS
// parser rejects the document.
func parseFeedBody(body []byte) ([]FeedItem, error) {
	rssParser := &rss.Parser{}
	if feed, err := rssParser.Parse(bytes.NewReader(body)); err == nil {
		return itemsFromRSS(feed), nil
	}
	atomParser := &atom.Parser{}
	if feed, err := atomParser.Parse(bytes.NewReader(body)); err == nil {
		return itemsFromAtom(feed), nil
	}
	return nil, errors.New("not a recognized RSS or Atom document")
}

func itemsFromRSS(feed *rss.Feed) []FeedItem {
	items := make([]FeedItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		item := FeedItem{
			Title:       strings.TrimSpace(firstNonEmpty(entry.Title, "Untitled")),
			Link:        strings.TrimSpace(entry.Link),
			Description: strings.TrimSpace(entry.Description),
			PublishedAt: publishedOrNow(entry.PubDateParsed),
		}
		guid := ""
		if entry.GUID != nil {
			guid = strings.TrimSpace(entry.GUID.Value)
		}
		item.DedupKey = firstNonEmpty(guid, item.Link)
		items = append(items, item)
	}
	return items
}

func itemsFromAtom(feed *atom.Feed) []FeedItem {
	items := make([]FeedItem, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if entry == nil {
			continue
		}
		content := ""
		if entry.Content != nil {
			content = entry.Content.Value
		}
		item := FeedItem{
			Title:       strings.TrimSpace(firstNonEmpty(entry.Title, "Untitled")),
			Link:        strings.TrimSpace(firstAtomLink(entry.Links)),
			Description: strings.TrimSpace(firstNonEmpty(entry.Summary, content)),
			PublishedAt: publishedOrNow(firstTime(entry.PublishedParsed, entry.UpdatedParsed)),
		}
		item.DedupKey = firstNonEmpty(strings.TrimSpace(entry.ID), item.Link)
		items = append(items, item)
	}
	return items
}

func firstAtomLink(links []*atom.Link) string {
	for _, link := range links {
		if link == nil {
			continue
		}
		if link.Rel == "alternate" || link.Rel == "" {
			return link.Href
		}
	}
	for _, link := range links {
		if link != nil {
			return link.Href
		}
	}
	return ""
}

func firstTime(values ...*time.Time) *time.Time {
	for _, value := range values {
		if value != nil && !value.IsZero() {
			return value
		}
	}
	return nil
}

func publishedOrNow(value *time.Time) time.Time {
	if value == nil || value.IsZero() {
		return time.Now().UTC()
	}
	return value.UTC()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
