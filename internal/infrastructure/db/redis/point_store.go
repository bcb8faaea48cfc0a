package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// storedPointsKey is the list holding one JSON document per stored point.
const storedPointsKey = "storedPoints"

// PointStore keeps road points in a Redis list.
type PointStore struct {
	client *redis.Client
}

var _ ports.RoadPointStore = (*PointStore)(nil)

// NewPointStore creates a PointStore wrapping the given Redis client.
func NewPointStore(client *redis.Client) *PointStore {
	return &PointStore{client: client}
}

// Store appends p to the stored points list.
func (s *PointStore) Store(ctx context.Context, p domain.StoredRoadPoint) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store point: encode: %w", err)
	}
	if err := s.client.RPush(ctx, storedPointsKey, doc).Err(); err != nil {
		return fmt.Errorf("store point: %w", err)
	}
	return nil
}

// All returns every stored point. Entries that are not valid JSON are
// skipped rather than failing the whole read.
func (s *PointStore) All(ctx context.Context) ([]domain.StoredRoadPoint, error) {
	docs, err := s.client.LRange(ctx, storedPointsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}

	points := make([]domain.StoredRoadPoint, 0, len(docs))
	for _, doc := range docs {
		var p domain.StoredRoadPoint
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}
