/*
scheduler.go - Automated monthly payroll scheduler

PURPOSE:
  Periodically checks whether the previous month's payroll has been
  generated and triggers the engine when it has not.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Targets the month before the current one (a period is only payable
    once it has fully elapsed)
  - Skips periods that already have a completed run on record
  - Run records double as the audit trail shown in /api/payroll/runs

USAGE:
  scheduler := NewPayrollScheduler(store, engine)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GeneratePayroll endpoint (manual generation)
  - payroll/engine.go: the generation engine
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/payroll-engine/store/sqlite"
)

// PayrollScheduler triggers payroll generation for elapsed months.
type PayrollScheduler struct {
	Store         *sqlite.Store
	Engine        PayrollGenerator
	CheckInterval time.Duration
	Enabled       bool

	clock  func() time.Time
	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// PayrollGenerator is the slice of the engine the scheduler needs.
type PayrollGenerator interface {
	Generate(ctx context.Context, month, year int) error
}

// NewPayrollScheduler creates a new scheduler.
func NewPayrollScheduler(store *sqlite.Store, engine PayrollGenerator) *PayrollScheduler {
	return &PayrollScheduler{
		Store:         store,
		Engine:        engine,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		clock:         time.Now,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ps *PayrollScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop stops the scheduler.
func (ps *PayrollScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ps *PayrollScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.checkAndGenerate()

	for {
		select {
		case <-ps.ticker.C:
			ps.checkAndGenerate()
		case <-ps.stop:
			return
		}
	}
}

func (ps *PayrollScheduler) checkAndGenerate() {
	ctx := context.Background()

	month, year := previousPeriod(ps.clock())

	done, err := sqlite.Payrolls{Store: ps.Store}.HasCompletedRun(ctx, month, year)
	if err != nil {
		log.Printf("[Scheduler] Error checking runs for %04d-%02d: %v", year, month, err)
		return
	}
	if done {
		return
	}

	log.Printf("[Scheduler] Generating payroll for %04d-%02d", year, month)
	if err := ps.Engine.Generate(ctx, month, year); err != nil {
		log.Printf("[Scheduler] Generation for %04d-%02d failed: %v", year, month, err)
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (ps *PayrollScheduler) RunNow() {
	ps.checkAndGenerate()
}

// previousPeriod returns the month before now's, rolling over the year
// boundary in January.
func previousPeriod(now time.Time) (month, year int) {
	month = int(now.Month()) - 1
	year = now.Year()
	if month == 0 {
		month = 12
		year--
	}
	return month, year
}
