// Package market 提供 2026 年 1 月硬件行情：
// 静态快照表的类目过滤，与走网关的实时行情检索（带 Redis 缓存）。
package market

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techcoremm/techcore-ai/internal/model"
	"github.com/techcoremm/techcore-ai/pkg/log"
)

// Redis key 前缀
const cacheKeyPrefix = "market:"

// CategoryAll 类目过滤通配值
const CategoryAll = "ALL"

// 静态行情快照（2026 年 1 月，MMK）
var priceIndex = []model.MarketPriceEntry{
	{
		ID:       "cpu-385k",
		Name:     "Intel Ultra 9 385K",
		Category: "CPU",
		Specs:    "24-Core, 6.2GHz Boost",
		Prices:   model.HubPrices{Seikkantha: 2850000, Yuzana: 2790000, Mandalay: 2950000},
	},
	{
		ID:       "gpu-5090",
		Name:     "NVIDIA RTX 5090 FE",
		Category: "GPU",
		Specs:    "32GB GDDR7",
		Prices:   model.HubPrices{Seikkantha: 9500000, Yuzana: 9350000, Mandalay: 9800000},
	},
	{
		ID:       "ram-z6",
		Name:     "Trident Z6 DDR6",
		Category: "RAM",
		Specs:    "64GB (2x32) 9200MHz",
		Prices:   model.HubPrices{Seikkantha: 1200000, Yuzana: 1150000, Mandalay: 1250000},
	},
	{
		ID:       "ssd-990",
		Name:     "Samsung 990 Pro G6",
		Category: "SSD",
		Specs:    "4TB NVMe Gen6",
		Prices:   model.HubPrices{Seikkantha: 850000, Yuzana: 820000, Mandalay: 890000},
	},
}

// Searcher 实时行情检索所需的网关能力
type Searcher interface {
	QueryMarketPrices(ctx context.Context, query string) []model.MarketPriceEntry
}

// Service 行情服务
type Service struct {
	searcher Searcher
	redis    *redis.Client // 可为 nil，缓存是尽力而为的
	cacheTTL time.Duration
}

// NewService 创建行情服务
func NewService(searcher Searcher, redisClient *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{
		searcher: searcher,
		redis:    redisClient,
		cacheTTL: cacheTTL,
	}
}

// List 返回静态快照表，按类目过滤（ALL 或空返回全部）
// 返回的是副本，调用方可以随意改动
func (s *Service) List(category string) []model.MarketPriceEntry {
	c := strings.ToUpper(strings.TrimSpace(category))

	out := make([]model.MarketPriceEntry, 0, len(priceIndex))
	for _, e := range priceIndex {
		if c == "" || c == CategoryAll || strings.ToUpper(e.Category) == c {
			out = append(out, e)
		}
	}
	return out
}

// Search 实时行情检索，结果按查询词缓存
// 任何缓存故障都只降级为直连网关，绝不向调用方抛错
func (s *Service) Search(ctx context.Context, query string) []model.MarketPriceEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.MarketPriceEntry{}
	}

	key := cacheKeyPrefix + strings.ToLower(query)

	if cached, ok := s.loadCache(ctx, key); ok {
		return cached
	}

	entries := s.searcher.QueryMarketPrices(ctx, query)

	// 空结果不缓存，等下一次重试
	if len(entries) > 0 {
		s.saveCache(ctx, key, entries)
	}
	return entries
}

// loadCache 从 Redis 读缓存，未命中或解码失败都按未命中处理
func (s *Service) loadCache(ctx context.Context, key string) ([]model.MarketPriceEntry, bool) {
	if s.redis == nil {
		return nil, false
	}

	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var entries []model.MarketPriceEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		log.Warnf("failed to decode cached market entries: %v", err)
		return nil, false
	}
	return entries, true
}

// saveCache 写缓存，失败只记日志不影响主流程
func (s *Service) saveCache(ctx context.Context, key string, entries []model.MarketPriceEntry) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Warnf("failed to cache market entries: %v", err)
	}
}
