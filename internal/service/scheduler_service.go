package service

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron-based summary jobs. Jobs only read state.
type SchedulerService struct {
	cron *cron.Cron
	jobs int
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleSummaries registers job every interval and once a day at dailyAt
// (HH:MM). A zero interval or empty dailyAt skips that trigger.
func (s *SchedulerService) ScheduleSummaries(interval time.Duration, dailyAt string, job func()) error {
	if interval > 0 {
		if _, err := s.ScheduleInterval(interval, job); err != nil {
			return fmt.Errorf("schedule interval: %w", err)
		}
		log.Printf("[info] summary scheduled every %s", interval)
	}
	if dailyAt != "" {
		if _, err := s.ScheduleDaily(dailyAt, job); err != nil {
			return fmt.Errorf("schedule daily: %w", err)
		}
		log.Printf("[info] summary scheduled daily at %s", dailyAt)
	}
	return nil
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.add(spec, job)
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	spec, err := buildIntervalSpec(interval)
	if err != nil {
		return 0, err
	}
	return s.add(spec, job)
}

// HasJobs reports whether anything was registered.
func (s *SchedulerService) HasJobs() bool {
	return s.jobs > 0
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SchedulerService) add(spec string, job func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, err
	}
	s.jobs++
	return id, nil
}

func buildIntervalSpec(interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return fmt.Sprintf("@every %ds", seconds), nil
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
