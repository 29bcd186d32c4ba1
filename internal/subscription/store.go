package subscription

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iabetor/feedparse/internal/logger"
)

// Store 订阅源持久化存储，数据保存在 JSON 文件中。
type Store struct {
	mu       sync.RWMutex
	filePath string
	subs     []Subscription
}

// NewStore 创建订阅源存储。
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	s := &Store{
		filePath: filepath.Join(dataDir, "subscriptions.json"),
	}
	if err := s.load(); err != nil {
		logger.Warnf("[subscription] 加载订阅数据失败（将使用空列表）: %v", err)
		s.subs = make([]Subscription, 0)
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.subs = make([]Subscription, 0)
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &s.subs)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.subs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

// Add 添加订阅源，URL 已存在时返回错误。返回写入后的订阅。
func (s *Store) Add(sub Subscription) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subs {
		if existing.URL == sub.URL {
			return Subscription{}, fmt.Errorf("该订阅源已存在: %s", existing.Name)
		}
	}

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.AddedAt.IsZero() {
		sub.AddedAt = time.Now()
	}

	s.subs = append(s.subs, sub)
	if err := s.save(); err != nil {
		return Subscription{}, fmt.Errorf("保存订阅数据失败: %w", err)
	}
	return sub, nil
}

// List 列出所有订阅源。
func (s *Store) List() []Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Subscription, len(s.subs))
	copy(result, s.subs)
	return result
}

// Delete 根据 ID 或名称（不区分大小写）删除订阅源。
func (s *Store) Delete(idOrName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(idOrName)
	for i, sub := range s.subs {
		if sub.ID == idOrName || strings.ToLower(sub.Name) == lower {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			if err := s.save(); err != nil {
				logger.Warnf("[subscription] 保存订阅数据失败: %v", err)
			}
			return true
		}
	}
	return false
}

// FindByName 按名称模糊查找订阅源，支持拼音。
func (s *Store) FindByName(name string) *Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if matchName(sub.Name, name) {
			result := sub
			return &result
		}
	}
	return nil
}

// UpdateLastFetched 更新订阅源的最后抓取时间。
func (s *Store) UpdateLastFetched(id string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.subs {
		if s.subs[i].ID == id {
			s.subs[i].LastFetched = t
			if err := s.save(); err != nil {
				logger.Warnf("[subscription] 保存订阅数据失败: %v", err)
			}
			return
		}
	}
}
