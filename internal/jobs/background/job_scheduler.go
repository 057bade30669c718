package background

import (
	"context"
	"log"
	"sync"
	"time"

	"basetrack/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs periodic maintenance work: keeping the dashboard stats
// snapshot warm so the first request after an invalidation does not pay for
// a full inventory scan.
type JobScheduler struct {
	scheduler gocron.Scheduler
	statsSvc  services.StatsService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(statsSvc services.StatsService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		statsSvc:  statsSvc,
		jobs:      make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshBaseStats, context.Background()),
		gocron.WithName("base-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stats refresh job: %v", err)
	} else {
		js.jobs["base-stats-refresh"] = statsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) refreshBaseStats(ctx context.Context) error {
	if err := js.statsSvc.Refresh(ctx); err != nil {
		log.Printf("Failed to refresh base stats: %v", err)
		return err
	}
	return nil
}

// AddJob schedules a custom recurring task.
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}

// JobNames lists the registered job names.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
