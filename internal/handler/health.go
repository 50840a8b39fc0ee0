package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthProbeTimeout = 3 * time.Second

// checkResult is the reported state of a single dependency probe.
type checkResult string

const (
	checkUp   checkResult = "up"
	checkDown checkResult = "down"
)

func probeDatabase(ctx context.Context, db *gorm.DB) checkResult {
	sqlDB, err := db.DB()
	if err != nil {
		return checkDown
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return checkDown
	}
	return checkUp
}

func probeRedis(ctx context.Context, rdb *redis.Client) checkResult {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return checkDown
	}
	return checkUp
}

// Health probes Postgres and Redis and reports per-dependency state.
// Returns 503 when either dependency is unreachable so load balancers
// stop routing to a half-broken instance.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()

		checks := gin.H{
			"postgres": probeDatabase(ctx, db),
			"redis":    probeRedis(ctx, rdb),
		}

		code := http.StatusOK
		overall := "healthy"
		for _, state := range checks {
			if state == checkDown {
				code = http.StatusServiceUnavailable
				overall = "degraded"
				break
			}
		}

		c.JSON(code, gin.H{
			"status": overall,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
