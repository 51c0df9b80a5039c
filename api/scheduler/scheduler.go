// Package scheduler runs the periodic background jobs of the API
package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderSpec runs the interview reminder job every 15 minutes
const ReminderSpec = "*/15 * * * *"

const reminderLock = "interview_reminder_job"

// ReminderSender sends the reminders of interviews starting soon after at
type ReminderSender interface {
	SendReminders(ctx context.Context, at time.Time) (int, error)
}

// Locker keeps two instances from running the same job at once
type Locker interface {
	TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron       *cron.Cron
	Reminders  ReminderSender
	Lock       Locker
	instanceID string
	now        func() time.Time
}

// NewScheduler creates a new scheduler instance. lock may be nil for a single instance
// deployment.
func NewScheduler(reminders ReminderSender, lock Locker) *Scheduler {
	// Heroku sets DYNO to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Reminders:  reminders,
		Lock:       lock,
		instanceID: instanceID,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the jobs and starts the cron runner
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(ReminderSpec, s.sendReminders); err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}
	s.cron.Start()
	zap.S().Info("interview reminder scheduler started")
	return nil
}

// Stop stops the cron runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("interview reminder scheduler stopped")
}

func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if s.Lock != nil {
		acquired, err := s.Lock.TryAcquireLock(ctx, reminderLock, s.instanceID, 10*time.Minute)
		if err != nil {
			zap.S().Errorw("failed to acquire lock for reminder job", "error", err)
			return
		}
		if !acquired {
			zap.S().Debugw("reminder job running on another instance", "instance", s.instanceID)
			return
		}
		defer func() {
			if err := s.Lock.ReleaseLock(ctx, reminderLock, s.instanceID); err != nil {
				zap.S().Warnw("failed to release reminder job lock", "error", err)
			}
		}()
	}

	sent, err := s.Reminders.SendReminders(ctx, s.now())
	if err != nil {
		zap.S().Errorw("interview reminder job failed", "error", err)
		return
	}
	zap.S().Infow("interview reminder job finished", "reminded", sent)
}

// RedisLock is a Locker backed by SET NX
type RedisLock struct {
	Client *redis.Client
}

// releaseScript deletes the lock only when owner still holds it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// TryAcquireLock implements Locker
func (l *RedisLock) TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	return l.Client.SetNX(ctx, "lock:"+name, owner, ttl).Result()
}

// ReleaseLock implements Locker
func (l *RedisLock) ReleaseLock(ctx context.Context, name, owner string) error {
	return releaseScript.Run(ctx, l.Client, []string{"lock:" + name}, owner).Err()
}
