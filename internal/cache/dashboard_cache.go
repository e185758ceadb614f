package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pedrorichil/aprovaia/internal/models"
)

const dashboardTTL = 5 * time.Minute

// DashboardCache caches the aggregated teacher dashboard, which is expensive
// to compute and tolerates short staleness.
type DashboardCache interface {
	Get(ctx context.Context, teacherProfileID string) (*models.TeacherDashboard, error)
	Set(ctx context.Context, teacherProfileID string, dashboard *models.TeacherDashboard) error
}

type dashboardCache struct {
	client *redis.Client
}

func NewDashboardCache(client *redis.Client) DashboardCache {
	return &dashboardCache{client: client}
}

func (c *dashboardCache) key(teacherProfileID string) string {
	return fmt.Sprintf("dashboard:%s", teacherProfileID)
}

// Get returns the cached dashboard or nil on a miss. Cache errors degrade to
// a miss so Redis outages never break the endpoint.
func (c *dashboardCache) Get(ctx context.Context, teacherProfileID string) (*models.TeacherDashboard, error) {
	data, err := c.client.Get(ctx, c.key(teacherProfileID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var dashboard models.TeacherDashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *dashboardCache) Set(ctx context.Context, teacherProfileID string, dashboard *models.TeacherDashboard) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(teacherProfileID), data, dashboardTTL).Err()
}
