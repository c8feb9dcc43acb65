// Command jobctl is an operator CLI for inspecting and managing
// ingestion jobs directly against the Redis-backed job store and queue,
// for use when the API server is unavailable or a job needs a manual
// nudge.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/redis/go-redis/v9"

	"github.com/resumariner/engine/engine/queue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()
	jobs := queue.NewJobStore(rdb, 0)
	q := queue.New(rdb)

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "get":
		err = runGet(ctx, jobs, args)
	case "list":
		err = runList(ctx, jobs, args)
	case "requeue":
		err = runRequeue(ctx, q, jobs, args)
	case "delete":
		err = runDelete(ctx, jobs, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("jobctl %s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jobctl <get|list|requeue|delete> [flags]")
}

func runGet(ctx context.Context, jobs *queue.JobStore, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "job id")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("-id is required")
	}
	job, ok, err := jobs.Get(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("job %s not found", *id)
	}
	return printJSON(job)
}

func runList(ctx context.Context, jobs *queue.JobStore, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 50, "max jobs to list")
	fs.Parse(args)
	list, err := jobs.List(ctx, *limit)
	if err != nil {
		return err
	}
	return printJSON(list)
}

func runRequeue(ctx context.Context, q *queue.Queue, jobs *queue.JobStore, args []string) error {
	fs := flag.NewFlagSet("requeue", flag.ExitOnError)
	id := fs.String("id", "", "job id")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("-id is required")
	}
	job, ok, err := jobs.Get(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("job %s not found", *id)
	}
	taskID, err := q.Enqueue(ctx, job.JobID, job.FilePath)
	if err != nil {
		return err
	}
	fmt.Printf("requeued job %s as task %s\n", job.JobID, taskID)
	return nil
}

func runDelete(ctx context.Context, jobs *queue.JobStore, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "job id")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("-id is required")
	}
	ok, err := jobs.Delete(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("job %s not found", *id)
	}
	fmt.Printf("deleted job %s\n", *id)
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
