package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iabetor/feedparse/internal/config"
	"github.com/iabetor/feedparse/internal/feed"
	"github.com/iabetor/feedparse/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// errUsage 参数不正确，已经输出过用法。
var errUsage = errors.New("参数错误")

func run() error {
	configPath := flag.String("config", "configs/feedparse.yaml", "配置文件路径")
	noContent := flag.Bool("no-content", false, "不提取 description/summary/content")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return errUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	opts := feed.Options{SkipContent: *noContent || !cfg.Parser.ShouldExtractContent()}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "parse":
		if len(args) < 2 {
			return errors.New("用法: feedparse parse <文件|->")
		}
		return cmdParse(args[1], opts)
	case "watch":
		if len(args) < 2 {
			return errors.New("用法: feedparse watch <文件>")
		}
		if err := watchFile(ctx, args[1], func() { printSummary(args[1], opts) }); err != nil {
			return fmt.Errorf("监控失败: %w", err)
		}
		return nil
	case "fetch", "add", "list", "delete", "news", "archive":
		app, err := newApp(cfg, opts)
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer app.close()
		return app.run(ctx, args[0], args[1:])
	default:
		printUsage()
		return fmt.Errorf("未知命令: %s", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "feedparse RSS 2.0 / Atom 1.0 订阅源解析工具")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "用法: feedparse [-config <path>] [-no-content] <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "命令:")
	fmt.Fprintln(os.Stderr, "  parse <文件|->          解析本地文档并输出 JSON")
	fmt.Fprintln(os.Stderr, "  fetch <url>             抓取并解析订阅源，输出 JSON")
	fmt.Fprintln(os.Stderr, "  add <url> [名称]        添加订阅源（不提供名称时使用标题）")
	fmt.Fprintln(os.Stderr, "  list                    列出所有订阅源")
	fmt.Fprintln(os.Stderr, "  delete <ID|名称>        删除订阅源")
	fmt.Fprintln(os.Stderr, "  news [-source s] [-keyword k] [-limit n]")
	fmt.Fprintln(os.Stderr, "                          聚合订阅源最新内容")
	fmt.Fprintln(os.Stderr, "  archive <ID|名称> [-limit n]")
	fmt.Fprintln(os.Stderr, "                          查看订阅源的归档条目")
	fmt.Fprintln(os.Stderr, "  watch <文件>            文件变化时重新解析并输出摘要")
}

// loadConfig 读取配置文件，文件不存在时使用默认配置。
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func cmdParse(path string, opts feed.Options) error {
	text, err := readInput(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	parsed, err := feed.ParseWith(text, opts)
	if err != nil {
		return fmt.Errorf("解析失败: %w", err)
	}
	return writeJSON(os.Stdout, parsed)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printSummary 解析文件并输出一行摘要，解析失败只输出错误。
func printSummary(path string, opts feed.Options) {
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] 读取失败: %v\n", time.Now().Format("15:04:05"), err)
		return
	}
	parsed, err := feed.ParseWith(string(text), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] 解析失败: %v\n", time.Now().Format("15:04:05"), err)
		return
	}
	fmt.Println(summaryLine(parsed, time.Now()))
}

func summaryLine(f *feed.Feed, now time.Time) string {
	title := strings.TrimSpace(f.Title.Value())
	if title == "" {
		title = "(无标题)"
	}
	return fmt.Sprintf("[%s] %s %s: %d 条", now.Format("15:04:05"), f.Type, title, len(f.Items))
}
