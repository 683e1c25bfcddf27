package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/realtime/bus"
)

type Clients struct {
	Redis  *goredis.Client
	SSEBus bus.Bus
}

// wireClients dials the optional external clients. Without REDIS_ADDR the
// process runs single-instance and refresh signals stay in the local hub.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return Clients{}, nil
	}
	rdb, err := bus.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	b, err := bus.NewRedisBus(log, rdb, cfg.Redis.Channel)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
	}
	return Clients{Redis: rdb, SSEBus: b}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	// The bus owns the redis client.
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
}
