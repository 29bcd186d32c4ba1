package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gocraft/dbr/v2"
	"github.com/gocraft/dbr/v2/dialect"
)

const archiveTable = "feed_items"

// ArchivedItem 归档的条目。Published 与 FetchedAt 为 Unix 秒。
type ArchivedItem struct {
	FeedID    string `db:"feed_id"`
	GUID      string `db:"guid"`
	Title     string `db:"title"`
	Link      string `db:"link"`
	Summary   string `db:"summary"`
	Published int64  `db:"published"`
	FetchedAt int64  `db:"fetched_at"`
}

// Archive 把抓取到的条目按订阅源归档，同一源内按 link 去重。
type Archive struct {
	conn *dbr.Connection
}

// NewArchive 在已迁移的数据库上创建归档。
func NewArchive(db *DB) *Archive {
	return &Archive{
		conn: &dbr.Connection{
			DB:            db.DB,
			Dialect:       dialect.SQLite3,
			EventReceiver: &dbr.NullEventReceiver{},
		},
	}
}

// Save 写入条目，已存在的 (feed_id, link) 会被忽略，返回新写入的条数。
func (a *Archive) Save(ctx context.Context, feedID string, items []ArchivedItem) (int, error) {
	tx, err := a.conn.NewSession(nil).BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.RollbackUnlessCommitted()

	now := time.Now().Unix()
	inserted := 0
	for _, it := range items {
		if it.Link == "" {
			continue
		}
		fetchedAt := it.FetchedAt
		if fetchedAt == 0 {
			fetchedAt = now
		}
		res, err := tx.InsertBySql(
			"INSERT OR IGNORE INTO "+archiveTable+
				" (feed_id, guid, title, link, summary, published, fetched_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			feedID, it.GUID, it.Title, it.Link, it.Summary, it.Published, fetchedAt,
		).ExecContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("归档条目失败: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("提交事务失败: %w", err)
	}
	return inserted, nil
}

// Recent 按发布时间倒序返回某个源最近的条目。
func (a *Archive) Recent(ctx context.Context, feedID string, limit int) ([]ArchivedItem, error) {
	if limit <= 0 {
		limit = 20
	}
	var items []ArchivedItem
	_, err := a.conn.NewSession(nil).
		Select("feed_id", "guid", "title", "link", "summary", "published", "fetched_at").
		From(archiveTable).
		Where("feed_id = ?", feedID).
		OrderDesc("published").
		OrderDesc("id").
		Limit(uint64(limit)).
		LoadContext(ctx, &items)
	if err != nil {
		return nil, fmt.Errorf("查询归档失败: %w", err)
	}
	return items, nil
}

// Count 返回某个源的归档条数。
func (a *Archive) Count(ctx context.Context, feedID string) (int, error) {
	var n int
	err := a.conn.NewSession(nil).
		Select("COUNT(*)").
		From(archiveTable).
		Where("feed_id = ?", feedID).
		LoadOneContext(ctx, &n)
	if err != nil {
		return 0, fmt.Errorf("统计归档失败: %w", err)
	}
	return n, nil
}
