package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/hoops-league-service/internal/broadcast"
	"github.com/preston-bernstein/hoops-league-service/internal/config"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
)

var dialRedis = broadcast.DialRedis

const (
	broadcastMemory = "memory"
	broadcastRedis  = "redis"
)

// buildBroadcast picks the channel live viewers subscribe to.
func buildBroadcast(ctx context.Context, cfg config.BroadcastConfig, logger *slog.Logger) (broadcast.Channel, error) {
	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case broadcastMemory, "":
		return broadcast.NewMemory(), nil
	case broadcastRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("broadcast %s: url is required", broadcastRedis)
		}
		ch, err := dialRedis(ctx, cfg.RedisURL, cfg.RedisPrefix, logger)
		if err != nil {
			return nil, err
		}
		logging.Info(logger, "broadcast connected", "driver", broadcastRedis)
		return ch, nil
	default:
		logging.Warn(logger, "unknown broadcast driver, using memory", "driver", driver)
		return broadcast.NewMemory(), nil
	}
}
