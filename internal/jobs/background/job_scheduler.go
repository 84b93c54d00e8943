package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"mercadopos/internal/jobs"
)

const (
	lowStockInterval = 30 * time.Minute
	overdueInterval  = 24 * time.Hour
	sweepTimeout     = 5 * time.Minute
)

// JobScheduler owns the periodic background work: the store alert sweeps.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	alertSvc   *jobs.AlertService
	jobsByName map[string]gocron.Job
	mu         sync.RWMutex
}

func NewJobScheduler(alertSvc *jobs.AlertService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		alertSvc:   alertSvc,
		jobsByName: make(map[string]gocron.Job),
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
	js.mu.Lock()
	defer js.mu.Unlock()

	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(lowStockInterval),
		gocron.NewTask(js.runSweep, "low stock", js.alertSvc.RunLowStockSweep),
		gocron.WithName("low-stock-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low stock sweep job: %v", err)
	} else {
		js.jobsByName["low-stock"] = lowStockJob
	}

	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(overdueInterval),
		gocron.NewTask(js.runSweep, "overdue installments", js.alertSvc.RunOverdueSweep),
		gocron.WithName("overdue-installment-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue installment sweep job: %v", err)
	} else {
		js.jobsByName["overdue"] = overdueJob
	}
}

func (js *JobScheduler) runSweep(name string, sweep func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if err := sweep(ctx); err != nil {
		log.Printf("%s sweep failed: %v", name, err)
	}
}
