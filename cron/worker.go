package cron

import (
	"context"
	"log"
	"time"

	"villagestay/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const (
	TypeDailyReminders = "reminders:daily"
	TypeSessionCleanup = "sessions:cleanup"

	dailyReminderSpec  = "0 9 * * *"
	sessionCleanupSpec = "0 * * * *"
)

// InitScheduler registers the cron entries and runs the worker in background.
// It returns the scheduler and server so main can stop them on shutdown.
func InitScheduler(hooks *Hooks) (*asynq.Scheduler, *asynq.Server) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register(dailyReminderSpec, asynq.NewTask(TypeDailyReminders, nil)); err != nil {
		log.Fatalf("[Scheduler] ❗ Failed to register reminder task: %v", err)
	}
	if _, err := scheduler.Register(sessionCleanupSpec, asynq.NewTask(TypeSessionCleanup, nil)); err != nil {
		log.Fatalf("[Scheduler] ❗ Failed to register cleanup task: %v", err)
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDailyReminders, func(ctx context.Context, task *asynq.Task) error {
		return hooks.RunDailyReminders(ctx)
	})
	mux.HandleFunc(TypeSessionCleanup, func(ctx context.Context, task *asynq.Task) error {
		return hooks.EvictIdleSessions(ctx)
	})

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[Scheduler] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Scheduler] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Scheduler] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] ❗ Failed to run scheduler: %v", err)
		}
	}()

	return scheduler, srv
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Scheduler] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
