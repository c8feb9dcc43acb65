// Command cleanup runs as a separate long-lived task that periodically
// requeues in-flight tasks that have outlived the queue's visibility
// timeout (spec §5), independent of the ingestion worker's own polling
// loop.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resumariner/engine/engine/queue"
	"github.com/resumariner/engine/pkg/metrics"
)

var met = metrics.New()

func main() {
	var (
		redisAddr   = flag.String("redis", envOr("REDIS_ADDR", "localhost:6379"), "Redis address")
		interval    = flag.Duration("interval", 60*time.Second, "cleanup scan interval")
		metricsPort = flag.Int("metrics-port", 9093, "metrics server port")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	met.ServeAsync(*metricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed", "error", err)
		os.Exit(1)
	}

	q := queue.New(rdb)

	requeued := met.Counter("resume_cleanup_requeued_total", "in-flight tasks requeued by the cleanup task after exceeding the visibility timeout")
	errs := met.Counter("resume_cleanup_errors_total", "cleanup scan passes that returned an error")

	logger.Info("cleanup task starting", "redis", *redisAddr, "interval", interval.String())

	scan := func() {
		n, err := q.CleanupExpired(ctx)
		if err != nil {
			errs.Inc()
			logger.Error("cleanup scan failed", "error", err)
			return
		}
		if n > 0 {
			requeued.Add(int64(n))
			logger.Info("cleanup requeued expired tasks", "count", n)
		}
	}

	scan()
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			scan()
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
