package redis

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"rebate_audit/internal/models"
)

const reportPrefix = "report:"

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetReport returns a cached result. A miss is (nil, false, nil).
func (c *Client) GetReport(ctx context.Context, key string) (*models.ReportResult, bool, error) {
	val, err := c.rdb.Get(ctx, reportPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get report: %w", err)
	}

	result, err := DecodeReport(val)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func (c *Client) SetReport(ctx context.Context, key string, result *models.ReportResult, ttl time.Duration) error {
	data, err := EncodeReport(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, reportPrefix+key, data, ttl).Err()
}

// InvalidateReports drops every cached report; called after each rebuild.
func (c *Client) InvalidateReports(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, reportPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan reports: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// EncodeReport uses gob so int64 and float64 cells keep their types; JSON
// would turn 0.0 into 0.
func EncodeReport(result *models.ReportResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeReport(data []byte) (*models.ReportResult, error) {
	var result models.ReportResult
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &result, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
