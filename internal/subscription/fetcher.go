package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/iabetor/feedparse/internal/config"
	"github.com/iabetor/feedparse/internal/database"
	"github.com/iabetor/feedparse/internal/feed"
	"github.com/iabetor/feedparse/internal/logger"
)

// Fetcher 负责抓取、解析和缓存订阅源内容。
type Fetcher struct {
	mu        sync.RWMutex
	store     *Store
	archive   *database.Archive
	cachePath string
	cache     map[string]cachedFeed // key: 订阅 ID
	cacheTTL  time.Duration
	maxItems  int
	maxBody   int64
	userAgent string
	opts      feed.Options
	client    *http.Client
}

// cachedFeed 单个订阅源的缓存。
type cachedFeed struct {
	FetchedAt time.Time `json:"fetched_at"`
	Entries   []Entry   `json:"entries"`
}

// NewFetcher 创建抓取器。
func NewFetcher(store *Store, dataDir string, cfg config.FetchConfig, opts feed.Options) *Fetcher {
	f := &Fetcher{
		store:     store,
		cachePath: filepath.Join(dataDir, "fetch_cache.json"),
		cache:     make(map[string]cachedFeed),
		cacheTTL:  time.Duration(cfg.CacheTTLMinutes) * time.Minute,
		maxItems:  cfg.MaxItems,
		maxBody:   cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
		opts:      opts,
		client:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
	if f.maxItems <= 0 {
		f.maxItems = 20
	}
	if f.maxBody <= 0 {
		f.maxBody = 5 << 20
	}

	if err := f.loadCache(); err != nil {
		logger.Debugf("[subscription] 加载缓存失败: %v", err)
	}
	// 缓存文件内容为 null 时 Unmarshal 会把 map 置空
	if f.cache == nil {
		f.cache = make(map[string]cachedFeed)
	}
	return f
}

// SetArchive 设置归档，之后抓取到的条目会写入数据库。
func (f *Fetcher) SetArchive(a *database.Archive) {
	f.archive = a
}

// Fetch 抓取并解析指定 URL。
func (f *Fetcher) Fetch(ctx context.Context, url string) (*feed.Feed, error) {
	body, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	parsed, err := feed.ParseWith(string(body), f.opts)
	if errors.Is(err, feed.ErrUnsupportedFormat) {
		if kind := sniffFormat(body); kind != "" {
			return nil, fmt.Errorf("%w（检测到 %s）", err, kind)
		}
	}
	return parsed, err
}

// FetchAndValidate 抓取 URL，验证其为可解析的订阅源并返回标题。
func (f *Fetcher) FetchAndValidate(ctx context.Context, url string) (string, error) {
	parsed, err := f.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("无法解析该订阅源: %w", err)
	}
	title := strings.TrimSpace(parsed.Title.Value())
	if title == "" {
		title = url
	}
	return title, nil
}

// GetNews 聚合订阅源的最新内容，按发布时间倒序。
// source 为空则获取所有源，keyword 为空则不过滤。
func (f *Fetcher) GetNews(ctx context.Context, source string, keyword string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}

	subs := f.store.List()
	if len(subs) == 0 {
		return nil, nil
	}

	if source != "" {
		var filtered []Subscription
		for _, sub := range subs {
			if matchName(sub.Name, source) {
				filtered = append(filtered, sub)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("未找到名为 %q 的订阅源", source)
		}
		subs = filtered
	}

	var all []Entry
	for _, sub := range subs {
		entries, err := f.entries(ctx, sub)
		if err != nil {
			logger.Warnf("[subscription] 获取 %s 失败: %v", sub.Name, err)
			continue
		}
		all = append(all, entries...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})

	if keyword != "" {
		lower := strings.ToLower(keyword)
		var filtered []Entry
		for _, e := range all {
			if strings.Contains(strings.ToLower(e.Title), lower) ||
				strings.Contains(strings.ToLower(e.Summary), lower) {
				filtered = append(filtered, e)
			}
		}
		all = filtered
	}

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// entries 获取单个订阅源的条目，缓存未过期时直接使用缓存。
func (f *Fetcher) entries(ctx context.Context, sub Subscription) ([]Entry, error) {
	f.mu.RLock()
	cached, hasCached := f.cache[sub.ID]
	f.mu.RUnlock()

	if hasCached && time.Since(cached.FetchedAt) < f.cacheTTL {
		return cached.Entries, nil
	}

	parsed, err := f.Fetch(ctx, sub.URL)
	if err != nil {
		// 抓取失败但有旧缓存，使用旧缓存
		if hasCached {
			logger.Warnf("[subscription] 抓取 %s 失败，使用旧缓存: %v", sub.Name, err)
			return cached.Entries, nil
		}
		return nil, err
	}

	entries := f.convertItems(parsed, sub.Name)
	f.archiveEntries(ctx, sub.ID, parsed, entries)

	now := time.Now()
	f.mu.Lock()
	f.cache[sub.ID] = cachedFeed{FetchedAt: now, Entries: entries}
	f.mu.Unlock()

	f.saveCache()
	f.store.UpdateLastFetched(sub.ID, now)
	return entries, nil
}

// convertItems 把解析结果转换为聚合条目，最多 maxItems 条。
func (f *Fetcher) convertItems(parsed *feed.Feed, feedName string) []Entry {
	n := len(parsed.Items)
	if n > f.maxItems {
		n = f.maxItems
	}

	entries := make([]Entry, 0, n)
	for _, it := range parsed.Items[:n] {
		summary := it.Description.Value()
		if summary == "" {
			summary = it.Summary.Value()
		}
		if summary == "" {
			summary = it.Content.Value()
		}

		published, ok := it.PublishedAt()
		if !ok {
			published = time.Now()
		}

		entries = append(entries, Entry{
			Title:     strings.TrimSpace(it.Title.Value()),
			Summary:   truncate(stripHTML(summary), maxSummaryLen),
			Link:      it.URL(),
			Published: published,
			FeedName:  feedName,
		})
	}
	return entries
}

func (f *Fetcher) archiveEntries(ctx context.Context, feedID string, parsed *feed.Feed, entries []Entry) {
	if f.archive == nil {
		return
	}
	rows := make([]database.ArchivedItem, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, database.ArchivedItem{
			GUID:      parsed.Items[i].ID.Value(),
			Title:     e.Title,
			Link:      e.Link,
			Summary:   e.Summary,
			Published: e.Published.Unix(),
		})
	}
	n, err := f.archive.Save(ctx, feedID, rows)
	if err != nil {
		logger.Warnf("[subscription] 归档失败: %v", err)
		return
	}
	logger.Debugf("[subscription] 归档 %d 条新条目 (feed=%s)", n, feedID)
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("响应超过 %d 字节", f.maxBody)
	}
	return body, nil
}

// sniffFormat 为无法识别的文档给出更具体的格式名，识别不出时返回空串。
func sniffFormat(body []byte) string {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeJSON:
		return "JSON Feed"
	case gofeed.FeedTypeRSS:
		return "RSS 1.0 (RDF)"
	}
	return ""
}

func (f *Fetcher) loadCache() error {
	data, err := os.ReadFile(f.cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &f.cache)
}

func (f *Fetcher) saveCache() {
	f.mu.RLock()
	data, err := json.Marshal(f.cache)
	f.mu.RUnlock()
	if err != nil {
		logger.Debugf("[subscription] 序列化缓存失败: %v", err)
		return
	}
	if err := os.WriteFile(f.cachePath, data, 0644); err != nil {
		logger.Debugf("[subscription] 保存缓存失败: %v", err)
	}
}
