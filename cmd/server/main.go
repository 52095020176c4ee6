/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Wire attendance machine, penalty book and payroll engine
  4. Configure HTTP router, optionally start the payroll scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: payroll.db)
              Use ":memory:" for in-memory database
  -rest-day   Weekly rest day excluded from working days (default: Friday)
  -scheduler  Enable the automatic monthly payroll run (default: true)
  -seed       Insert demo employees on startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database and demo data
  ./server -db="./data/payroll.db" -seed

  # Run with in-memory database
  ./server -db=":memory:"

  # Saturday/Sunday shops
  ./server -rest-day=Sunday

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/employee"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/penalty"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	// .env is optional; flags still win over nothing-set defaults.
	if err := godotenv.Load(); err == nil {
		log.Println("[Server] Loaded configuration from .env")
	}

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "payroll.db"), "SQLite database path")
	restDayName := flag.String("rest-day", envStr("REST_DAY", "Friday"), "weekly rest day")
	schedulerOn := flag.Bool("scheduler", true, "enable the automatic monthly payroll run")
	seed := flag.Bool("seed", false, "insert demo employees on startup")
	flag.Parse()

	restDay, err := parseWeekday(*restDayName)
	if err != nil {
		log.Fatalf("Invalid -rest-day: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Wire domain components
	machine := attendance.NewMachine(store)
	book := penalty.NewBook(sqlite.Penalties{Store: store})
	engine := payroll.NewEngine(
		sqlite.Directory{Store: store},
		store,
		sqlite.Penalties{Store: store},
		sqlite.Payrolls{Store: store},
		sqlite.Payrolls{Store: store},
		restDay,
	)

	handler := api.NewHandler(store, machine, engine, book)

	if *seed {
		if err := seedDemoData(context.Background(), store); err != nil {
			log.Printf("Warning: Failed to seed demo data: %v", err)
		}
	}

	scheduler := api.NewPayrollScheduler(store, engine)
	scheduler.Enabled = *schedulerOn
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// seedDemoData inserts a small staff roster for local exploration.
func seedDemoData(ctx context.Context, store *sqlite.Store) error {
	dir := sqlite.Directory{Store: store}

	demo := []employee.Employee{
		{
			ID:                  "emp-001",
			Name:                "Aisha Rahman",
			Designation:         "Software Engineer",
			BasicSalary:         money.MustParse("60000"),
			OvertimeRatePerHour: money.MustParse("0"),
			Deductions:          money.MustParse("0"),
			Status:              employee.StatusActive,
		},
		{
			ID:                  "emp-002",
			Name:                "Karim Hossain",
			Designation:         "Accountant",
			BasicSalary:         money.MustParse("45000"),
			OvertimeRatePerHour: money.MustParse("0"),
			Deductions:          money.MustParse("500"),
			Status:              employee.StatusActive,
		},
		{
			ID:                  "emp-003",
			Name:                "Nadia Islam",
			Designation:         "Office Manager",
			BasicSalary:         money.MustParse("52000"),
			OvertimeRatePerHour: money.MustParse("0"),
			Deductions:          money.MustParse("0"),
			Status:              employee.StatusSuspended,
		},
	}

	for _, e := range demo {
		if err := dir.Save(ctx, e); err != nil {
			return err
		}
	}
	log.Printf("[Server] Seeded %d demo employees", len(demo))
	return nil
}
