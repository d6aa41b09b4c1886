package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	DefaultArchiveCron = "0 2 * * *"
	reportArchiveJob   = "nightly-report-archive"
)

// JobScheduler runs the periodic report jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	reports   services.ReportService
	archiver  services.ReportArchiver
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler registers the nightly archive job on cronSpec (standard
// five-field cron, empty means DefaultArchiveCron).
func NewJobScheduler(reports services.ReportService, archiver services.ReportArchiver, cronSpec string) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		reports:   reports,
		archiver:  archiver,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	if cronSpec == "" {
		cronSpec = DefaultArchiveCron
	}
	if err := js.registerJobs(cronSpec); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.scheduler.Start()

	event := log.Info().Int("jobs", len(js.jobs))
	if next, err := js.NextRun(); err == nil {
		event = event.Time("next_run", next)
	}
	event.Msg("Started background job scheduler")
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs(cronSpec string) error {
	job, err := js.scheduler.NewJob(
		gocron.CronJob(cronSpec, false),
		gocron.NewTask(func() {
			if _, err := js.ArchiveNightlyReports(context.Background()); err != nil {
				log.Error().Err(err).Msg("nightly report archive failed")
			}
		}),
		gocron.WithName(reportArchiveJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create %s job: %w", reportArchiveJob, err)
	}

	js.mu.Lock()
	js.jobs[reportArchiveJob] = job
	js.mu.Unlock()
	return nil
}

type nightlyReport struct {
	name     string
	generate func(ctx context.Context, r models.DateRange) (*services.Report, error)
}

func (js *JobScheduler) nightlyReports() []nightlyReport {
	inventory := func(t models.InventoryType) func(context.Context, models.DateRange) (*services.Report, error) {
		return func(ctx context.Context, r models.DateRange) (*services.Report, error) {
			return js.reports.InventoryReport(ctx, string(t), r)
		}
	}
	return []nightlyReport{
		{"all dashboard companies", js.reports.AllDashboardsReport},
		{"all companies", js.reports.AllCompaniesReport},
		{"incoming inventory", inventory(models.InventoryIncoming)},
		{"outgoing inventory", inventory(models.InventoryOutgoing)},
	}
}

// ArchiveNightlyReports uploads every full report under a <YYYY-MM-DD>/ prefix
// and returns the object names written. Reports with nothing to show are skipped;
// other failures do not stop the remaining uploads.
func (js *JobScheduler) ArchiveNightlyReports(ctx context.Context) ([]string, error) {
	prefix := js.now().UTC().Format("2006-01-02")

	var archived []string
	var errs []error
	for _, nr := range js.nightlyReports() {
		report, err := nr.generate(ctx, models.DateRange{})
		if errors.Is(err, common.ErrNotFound) {
			log.Info().Str("report", nr.name).Msg("nothing to archive")
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", nr.name, err))
			continue
		}

		obj, err := js.archiver.Archive(ctx, report, prefix)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", nr.name, err))
			continue
		}
		archived = append(archived, obj.ObjectName)
	}

	log.Info().Int("archived", len(archived)).Int("failed", len(errs)).Str("prefix", prefix).Msg("nightly report archive finished")
	return archived, errors.Join(errs...)
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

// NextRun returns the next scheduled time of the archive job.
func (js *JobScheduler) NextRun() (time.Time, error) {
	js.mu.RLock()
	job, ok := js.jobs[reportArchiveJob]
	js.mu.RUnlock()
	if !ok {
		return time.Time{}, fmt.Errorf("job %s not registered", reportArchiveJob)
	}
	return job.NextRun()
}
