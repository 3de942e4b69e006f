package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marwayahua/study-smart-egypt/internal/repository"
)

const (
	reminderThrottleTTL      = 24 * time.Hour
	notificationPollInterval = 1 * time.Hour
)

// NotificationScheduler emails users who have cards due for review. A
// Redis key throttles each user to at most one reminder per day.
type NotificationScheduler struct {
	userRepo *repository.UserRepo
	email    *EmailService
	redis    *redis.Client
	stopChan chan struct{}
}

func NewNotificationScheduler(userRepo *repository.UserRepo, email *EmailService, redisClient *redis.Client) *NotificationScheduler {
	return &NotificationScheduler{
		userRepo: userRepo,
		email:    email,
		redis:    redisClient,
		stopChan: make(chan struct{}),
	}
}

func (s *NotificationScheduler) Start() {
	if s.userRepo == nil || s.email == nil {
		return
	}

	go s.loop()

	log.Printf("Notification scheduler started")
}

func (s *NotificationScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *NotificationScheduler) loop() {
	// Run on startup as well as by interval.
	s.sendStudyReminders(context.Background())

	ticker := time.NewTicker(notificationPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sendStudyReminders(context.Background())
		}
	}
}

func (s *NotificationScheduler) sendStudyReminders(ctx context.Context) {
	recipients, err := s.userRepo.ListReminderRecipients(ctx)
	if err != nil {
		log.Printf("study reminders: failed to list recipients: %v", err)
		return
	}

	for _, recipient := range recipients {
		throttleKey := fmt.Sprintf("reminder_sent:%s", recipient.ID.String())

		// SetNX doubles as the throttle check and the claim.
		claimed, err := s.redis.SetNX(ctx, throttleKey, "1", reminderThrottleTTL).Result()
		if err != nil {
			log.Printf("study reminders: throttle check failed for user %s: %v", recipient.ID, err)
			continue
		}
		if !claimed {
			continue
		}

		if err := s.email.SendStudyReminderEmail(recipient.Email, recipient.FullName, recipient.DueCount); err != nil {
			log.Printf("study reminders: failed to send to %s: %v", recipient.Email, err)
		}
	}
}
