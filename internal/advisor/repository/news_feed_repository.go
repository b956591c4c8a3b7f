package repository

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const providerNews = "news_feed"

type newsFeedRepository struct {
	cfg   config.News
	log   *logger.Logger
	cache *cache.Cache
}

// NewNewsFeedRepository creates a NewsRepository reading a per-ticker RSS feed.
func NewNewsFeedRepository(cfg config.News, log *logger.Logger) NewsRepository {
	return &newsFeedRepository{
		cfg:   cfg,
		log:   log,
		cache: cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

func (r *newsFeedRepository) GetRecentHeadlines(ctx context.Context, ticker string, limit int) ([]string, error) {
	cacheKey := fmt.Sprintf("headlines:%s:%d", ticker, limit)
	if v, ok := r.cache.Get(cacheKey); ok {
		return v.([]string), nil
	}

	feedURL := r.cfg.FeedURL
	if strings.Contains(feedURL, "%s") {
		feedURL = fmt.Sprintf(feedURL, url.QueryEscape(ticker))
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ProviderLatency.WithLabelValues(providerNews, status).Observe(time.Since(start).Seconds())
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, common.NewDataGap(ticker, time.Time{}, "news feed unavailable", err)
	}

	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PublishedParsed == nil || items[j].PublishedParsed == nil {
			return items[i].PublishedParsed != nil
		}
		return items[i].PublishedParsed.After(*items[j].PublishedParsed)
	})

	headlines := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, item := range items {
		if limit > 0 && len(headlines) >= limit {
			break
		}
		title := cleanTitle(item.Title)
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		headlines = append(headlines, title)
	}

	r.log.DebugContext(ctx, "Fetched headlines", logger.StringField("ticker", ticker), logger.IntField("count", len(headlines)))
	r.cache.SetDefault(cacheKey, headlines)
	return headlines, nil
}

// cleanTitle strips markup and entities from a feed title and collapses whitespace.
func cleanTitle(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
