// Package ingest imports feed items as sanitized documents.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/tengjizhang/scrub/internal/config"
	"github.com/tengjizhang/scrub/internal/docs"
	"github.com/tengjizhang/scrub/internal/model"
)

const maxFeedBodyBytes = 16 << 20

const feedAccept = "application/xml, application/atom+xml, application/rss+xml, application/feed+json, text/xml, text/html, */*;q=0.8"

type ProgressFn func(done, total int, result model.ImportResult)

type Importer struct {
	docs   *docs.Service
	cfg    config.Config
	client *http.Client
	logger *slog.Logger
}

func NewImporter(svc *docs.Service, cfg config.Config, logger *slog.Logger) *Importer {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = 4
	}

	return &Importer{
		docs:   svc,
		cfg:    cfg,
		logger: logger,
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		},
	}
}

// ImportAll imports every feed URL and never fails as a whole; per-feed
// failures are recorded in the matching result.
func (im *Importer) ImportAll(ctx context.Context, feedURLs []string, onResult ProgressFn) model.ImportReport {
	report := model.ImportReport{StartedAt: time.Now()}
	report.Results = runPool(feedURLs, im.cfg.FetchConcurrency, func(u string) model.ImportResult {
		res, _ := im.Import(ctx, u)
		return res
	}, onResult)
	report.EndedAt = time.Now()
	return report
}

// Import fetches one feed and stores each item as a document. A page that
// is not itself a feed is searched for an advertised feed link.
func (im *Importer) Import(ctx context.Context, rawURL string) (model.ImportResult, error) {
	result := model.ImportResult{FeedURL: strings.TrimSpace(rawURL)}

	feedURL, err := NormalizeURL(rawURL)
	if err != nil {
		return im.fail(result, err)
	}
	result.FeedURL = feedURL

	parsed, err := im.fetchFeed(ctx, feedURL, &result)
	if err != nil {
		return im.fail(result, err)
	}
	result.FeedTitle = fallback(strings.TrimSpace(parsed.Title), result.FeedURL)

	im.storeItems(ctx, parsed, &result)
	im.logger.Info("feed imported",
		"feed", result.FeedURL,
		"stored", result.Stored,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (im *Importer) fetchFeed(ctx context.Context, feedURL string, result *model.ImportResult) (*gofeed.Feed, error) {
	body, effectiveURL, err := im.get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	parsed, parseErr := gofeed.NewParser().Parse(bytes.NewReader(body))
	if parseErr == nil {
		return parsed, nil
	}

	base, err := url.Parse(effectiveURL)
	if err != nil {
		return nil, err
	}
	candidates := discoverFeedCandidates(body, base)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no feed found at %s: %w", effectiveURL, parseErr)
	}

	result.FeedURL = candidates[0]
	body, _, err = im.get(ctx, candidates[0])
	if err != nil {
		return nil, err
	}
	return gofeed.NewParser().Parse(bytes.NewReader(body))
}

func (im *Importer) get(ctx context.Context, target string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", im.cfg.UserAgent)
	req.Header.Set("Accept", feedAccept)

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, "", err
	}
	if len(body) == 0 {
		return nil, "", fmt.Errorf("empty response body from %s", target)
	}

	effectiveURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}
	return body, effectiveURL, nil
}

type itemOutcome struct {
	inserted bool
	skipped  bool
	err      error
}

// itemPlan is one feed item with the document name it will be stored
// under. An empty body means the item is skipped.
type itemPlan struct {
	item *gofeed.Item
	name string
	body string
}

func (im *Importer) storeItems(ctx context.Context, parsed *gofeed.Feed, result *model.ImportResult) {
	plans := planItems(strings.TrimSpace(parsed.Title), parsed.Items)
	outcomes := runPool(plans, im.cfg.FetchConcurrency, func(p itemPlan) itemOutcome {
		return im.storeItem(ctx, p)
	}, nil)

	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.Skipped++
			result.Errors = append(result.Errors, o.err.Error())
		case o.skipped:
			result.Skipped++
		case o.inserted:
			result.Stored++
		default:
			result.Updated++
		}
	}
}

// planItems names every storable item in feed order. A name already taken
// by an earlier item of the same feed gets a suffix derived from the
// item's key, so same-titled items never overwrite each other and a
// re-import maps each item to the same document.
func planItems(feedTitle string, items []*gofeed.Item) []itemPlan {
	plans := make([]itemPlan, len(items))
	used := make(map[string]bool, len(items))
	for i, item := range items {
		plans[i].item = item
		if item == nil {
			continue
		}
		body := itemBody(item)
		if body == "" {
			continue
		}
		plans[i].body = body

		label := strings.TrimSpace(item.Title)
		if label == "" {
			label = itemKey(item)
		}
		if feedTitle != "" {
			label = feedTitle + "-" + label
		}
		name, err := docs.SafeName(label)
		if err != nil {
			// Put reports the error for this item.
			plans[i].name = label
			continue
		}
		if used[name] {
			base := name
			name = docs.WithSuffix(base, shortHash(itemKey(item)))
			for n := 2; used[name]; n++ {
				name = docs.WithSuffix(base, shortHash(itemKey(item))+"-"+strconv.Itoa(n))
			}
		}
		used[name] = true
		plans[i].name = name
	}
	return plans
}

func (im *Importer) storeItem(ctx context.Context, p itemPlan) itemOutcome {
	if p.item == nil || p.body == "" {
		return itemOutcome{skipped: true}
	}
	res, err := im.docs.Put(ctx, p.name, p.body, strings.TrimSpace(p.item.Link))
	if err != nil {
		im.logger.Warn("feed item not stored", "item", p.name, "error", err)
		return itemOutcome{err: fmt.Errorf("%s: %w", p.name, err)}
	}
	return itemOutcome{inserted: res.Inserted}
}

func (im *Importer) fail(result model.ImportResult, err error) (model.ImportResult, error) {
	if errors.Is(err, context.Canceled) {
		result.Error = "canceled"
	} else {
		result.Error = err.Error()
	}
	im.logger.Warn("feed import failed", "feed", result.FeedURL, "error", err)
	return result, err
}

// runPool applies fn to every input with at most n goroutines. Results keep
// the input order.
func runPool[T, R any](inputs []T, n int, fn func(T) R, onResult func(done, total int, r R)) []R {
	total := len(inputs)
	results := make([]R, total)
	if total == 0 {
		return results
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}

	jobs := make(chan int)
	var mu sync.Mutex
	done := 0
	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				r := fn(inputs[idx])
				results[idx] = r
				if onResult != nil {
					mu.Lock()
					done++
					onResult(done, total, r)
					mu.Unlock()
				}
			}
		}()
	}
	for idx := range inputs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	return results
}
