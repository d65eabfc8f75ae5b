package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/siwei-li/bible-bot/internal/survey"
	"github.com/siwei-li/bible-bot/pkg/models"
)

// DefaultReminderHour is when the daily unfinished-survey sweep runs
const DefaultReminderHour = 18

// Notifier interface for sending reminders
type Notifier interface {
	SendReminder(userID string, remaining int) error
}

// progressSource supplies the progress records of users with a selected domain
type progressSource interface {
	Active() ([]models.UserProgress, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	catalog   *survey.Catalog
	progress  progressSource
}

// New creates a new scheduler instance
func New(notifier Notifier, catalog *survey.Catalog, progress progressSource) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
		catalog:   catalog,
		progress:  progress,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly tick; the job itself decides whether this is the reminder hour
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders nudges every user who selected a domain but still
// has remaining questions. Per-user failures are logged and never abort
// the sweep.
func (s *Scheduler) checkAndSendReminders() {
	reminderHour := DefaultReminderHour
	if hourStr := os.Getenv("REMINDER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			reminderHour = h
		}
	}

	if time.Now().UTC().Hour() != reminderHour {
		return
	}

	active, err := s.progress.Active()
	if err != nil {
		log.Printf("Error getting active surveys: %v", err)
		return
	}

	for i := range active {
		remaining := s.catalog.Remaining(&active[i])
		if len(remaining) == 0 {
			continue
		}
		if err := s.notifier.SendReminder(active[i].UserID, len(remaining)); err != nil {
			log.Printf("Error sending reminder to user %s: %v", active[i].UserID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Scheduler) RunManualCheck(progress *models.UserProgress) error {
	remaining := s.catalog.Remaining(progress)
	if len(remaining) == 0 {
		return nil
	}
	return s.notifier.SendReminder(progress.UserID, len(remaining))
}
