package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iabetor/feedparse/internal/config"
	"github.com/iabetor/feedparse/internal/database"
	"github.com/iabetor/feedparse/internal/feed"
	"github.com/iabetor/feedparse/internal/subscription"
)

// app 持有订阅相关命令共用的组件。
type app struct {
	store   *subscription.Store
	fetcher *subscription.Fetcher
	archive *database.Archive
	db      *database.DB
	out     io.Writer
}

func newApp(cfg *config.Config, opts feed.Options) (*app, error) {
	store, err := subscription.NewStore(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.Data.DB)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	archive := database.NewArchive(db)
	fetcher := subscription.NewFetcher(store, cfg.Data.Dir, cfg.Fetch, opts)
	fetcher.SetArchive(archive)
	return &app{store: store, fetcher: fetcher, archive: archive, db: db, out: os.Stdout}, nil
}

func (a *app) close() {
	a.db.Close()
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "fetch":
		if len(args) < 1 {
			return errors.New("用法: feedparse fetch <url>")
		}
		return a.fetch(ctx, args[0])
	case "add":
		if len(args) < 1 {
			return errors.New("用法: feedparse add <url> [名称]")
		}
		return a.add(ctx, args[0], strings.Join(args[1:], " "))
	case "list":
		a.list()
		return nil
	case "delete":
		if len(args) < 1 {
			return errors.New("用法: feedparse delete <ID|名称>")
		}
		return a.remove(args[0])
	case "news":
		return a.news(ctx, args)
	case "archive":
		if len(args) < 1 {
			return errors.New("用法: feedparse archive <ID|名称> [-limit n]")
		}
		return a.archived(ctx, args[0], args[1:])
	}
	return fmt.Errorf("未知命令: %s", cmd)
}

func (a *app) fetch(ctx context.Context, url string) error {
	parsed, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("抓取失败: %w", err)
	}
	return writeJSON(a.out, parsed)
}

func (a *app) add(ctx context.Context, url, name string) error {
	title, err := a.fetcher.FetchAndValidate(ctx, url)
	if err != nil {
		return err
	}
	if name == "" {
		name = title
	}
	sub, err := a.store.Add(subscription.Subscription{Name: name, URL: url})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "已成功订阅 %s (ID: %s)\n", sub.Name, sub.ID)
	return nil
}

func (a *app) list() {
	subs := a.store.List()
	if len(subs) == 0 {
		fmt.Fprintln(a.out, "当前没有任何订阅。可以使用 feedparse add <url> 添加。")
		return
	}

	fmt.Fprintf(a.out, "当前有 %d 个订阅源:\n", len(subs))
	for i, s := range subs {
		fmt.Fprintf(a.out, "%d. %s (%s) [ID: %s]", i+1, s.Name, s.URL, s.ID)
		if !s.LastFetched.IsZero() {
			fmt.Fprintf(a.out, " [上次更新: %s]", s.LastFetched.Format("01-02 15:04"))
		}
		fmt.Fprintln(a.out)
	}
}

func (a *app) remove(idOrName string) error {
	if !a.store.Delete(idOrName) {
		return fmt.Errorf("未找到订阅源 %s", idOrName)
	}
	fmt.Fprintf(a.out, "已取消订阅 %s\n", idOrName)
	return nil
}

func (a *app) news(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("news", flag.ContinueOnError)
	source := fs.String("source", "", "只看指定订阅源")
	keyword := fs.String("keyword", "", "按关键词过滤标题和摘要")
	limit := fs.Int("limit", 5, "返回条目数量")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := a.fetcher.GetNews(ctx, *source, *keyword, *limit)
	if err != nil {
		return fmt.Errorf("获取内容失败: %w", err)
	}
	if len(entries) == 0 {
		if len(a.store.List()) == 0 {
			fmt.Fprintln(a.out, "当前没有任何订阅。")
		} else {
			fmt.Fprintln(a.out, "没有找到相关内容。")
		}
		return nil
	}
	fmt.Fprint(a.out, formatEntries(entries))
	return nil
}

// resolve 先按 ID 精确查找，再按名称模糊查找。
func (a *app) resolve(idOrName string) (subscription.Subscription, error) {
	for _, s := range a.store.List() {
		if s.ID == idOrName {
			return s, nil
		}
	}
	if s := a.store.FindByName(idOrName); s != nil {
		return *s, nil
	}
	return subscription.Subscription{}, fmt.Errorf("未找到订阅源 %s", idOrName)
}

func (a *app) archived(ctx context.Context, idOrName string, args []string) error {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "返回条目数量")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sub, err := a.resolve(idOrName)
	if err != nil {
		return err
	}
	total, err := a.archive.Count(ctx, sub.ID)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintf(a.out, "%s 还没有归档条目。\n", sub.Name)
		return nil
	}
	items, err := a.archive.Recent(ctx, sub.ID, *limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s 共归档 %d 条，最近 %d 条:\n", sub.Name, total, len(items))
	for i, it := range items {
		fmt.Fprintf(a.out, "%d. %s", i+1, it.Title)
		if it.Published > 0 {
			fmt.Fprintf(a.out, " (%s)", time.Unix(it.Published, 0).Format("01-02 15:04"))
		}
		fmt.Fprintf(a.out, "\n   %s\n", it.Link)
	}
	return nil
}

func formatEntries(entries []subscription.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "共 %d 条最新内容:\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. [%s] %s", i+1, e.FeedName, e.Title)
		if !e.Published.IsZero() {
			fmt.Fprintf(&sb, " (%s)", e.Published.Format("01-02 15:04"))
		}
		sb.WriteString("\n")
		if e.Summary != "" {
			fmt.Fprintf(&sb, "   %s\n", e.Summary)
		}
		if e.Link != "" {
			fmt.Fprintf(&sb, "   %s\n", e.Link)
		}
	}
	return sb.String()
}
