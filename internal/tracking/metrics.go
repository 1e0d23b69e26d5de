package tracking

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const metricsTTL = 7 * 24 * time.Hour

// MetricsStore keeps hourly ingestion counters in redis. Counters are
// advisory dashboard data, expired after a week.
type MetricsStore struct {
	redis *redis.Client
}

func NewMetricsStore(redisClient *redis.Client) *MetricsStore {
	return &MetricsStore{redis: redisClient}
}

type IngestMetrics struct {
	Date        string `json:"date"`
	Hour        int    `json:"hour"`
	Tracked     int64  `json:"tracked"`
	Carts       int64  `json:"carts"`
	Rejected    int64  `json:"rejected"`
	RateLimited int64  `json:"rateLimited"`
}

func metricsKey(date string, hour int) string {
	return "visits:metrics:" + date + ":" + strconv.Itoa(hour)
}

func (s *MetricsStore) increment(ctx context.Context, field string) error {
	now := time.Now().UTC()
	key := metricsKey(now.Format("2006-01-02"), now.Hour())

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *MetricsStore) IncrementTracked(ctx context.Context) error {
	return s.increment(ctx, "tracked")
}

func (s *MetricsStore) IncrementCarts(ctx context.Context) error {
	return s.increment(ctx, "carts")
}

func (s *MetricsStore) IncrementRejected(ctx context.Context) error {
	return s.increment(ctx, "rejected")
}

func (s *MetricsStore) IncrementRateLimited(ctx context.Context) error {
	return s.increment(ctx, "rate_limited")
}

// GetMetrics returns the per-hour counters for the last N hours, newest
// first. Hours without any activity are skipped.
func (s *MetricsStore) GetMetrics(ctx context.Context, hours int) ([]*IngestMetrics, error) {
	now := time.Now().UTC()
	var metrics []*IngestMetrics

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		key := metricsKey(t.Format("2006-01-02"), t.Hour())

		data, err := s.redis.HGetAll(ctx, key).Result()
		if err != nil || len(data) == 0 {
			continue
		}

		m := &IngestMetrics{
			Date: t.Format("2006-01-02"),
			Hour: t.Hour(),
		}
		if v, ok := data["tracked"]; ok {
			m.Tracked, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["carts"]; ok {
			m.Carts, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["rejected"]; ok {
			m.Rejected, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["rate_limited"]; ok {
			m.RateLimited, _ = strconv.ParseInt(v, 10, 64)
		}

		metrics = append(metrics, m)
	}

	return metrics, nil
}
