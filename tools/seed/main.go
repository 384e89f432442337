package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type config struct {
	dsn         string
	table       string
	days        int
	startDate   string
	createTable bool
	truncate    bool
	randSeed    int64
}

func main() {
	cfg := parseConfig()
	if cfg.dsn == "" {
		log.Fatal("PG_DSN or DATABASE_URL is required")
	}
	if cfg.days <= 0 {
		log.Fatal("days must be > 0")
	}

	start, err := parseStartDate(cfg.startDate, cfg.days)
	if err != nil {
		log.Fatalf("invalid start-date: %v", err)
	}

	db, err := sql.Open("pgx", cfg.dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if cfg.createTable {
		if err := createTable(ctx, db, cfg.table); err != nil {
			log.Fatalf("create table: %v", err)
		}
		log.Printf("table %s ready", cfg.table)
	}
	if cfg.truncate {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+cfg.table); err != nil {
			log.Fatalf("truncate: %v", err)
		}
		log.Printf("table %s cleared", cfg.table)
	}

	employees := buildEmployees()
	rng := rand.New(rand.NewSource(cfg.randSeed))

	inserted, counts, err := seedAttendance(ctx, db, cfg.table, employees, start, cfg.days, rng)
	if err != nil {
		log.Fatalf("seed attendance: %v", err)
	}

	total := float64(inserted)
	log.Printf("inserted %d records for %d employees over %d days", inserted, len(employees), cfg.days)
	log.Printf("presents=%d (%.1f%%) absents=%d (%.1f%%) retards=%d (%.1f%%)",
		counts["Présent"], float64(counts["Présent"])/total*100,
		counts["Absent"], float64(counts["Absent"])/total*100,
		counts["Retard"], float64(counts["Retard"])/total*100)
}

func parseConfig() config {
	var cfg config
	flag.StringVar(&cfg.dsn, "dsn", envDefault("PG_DSN", os.Getenv("DATABASE_URL")), "postgres dsn")
	flag.StringVar(&cfg.table, "table", "attendance", "attendance table name")
	flag.IntVar(&cfg.days, "days", 30, "number of days to seed, ending yesterday")
	flag.StringVar(&cfg.startDate, "start-date", "", "first day to seed (YYYY-MM-DD, default days ago)")
	flag.BoolVar(&cfg.createTable, "create-table", false, "create the attendance table if missing")
	flag.BoolVar(&cfg.truncate, "truncate", false, "delete existing rows before seeding")
	flag.Int64Var(&cfg.randSeed, "seed", 42, "random seed")
	flag.Parse()
	return cfg
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseStartDate(raw string, days int) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days), nil
	}
	return time.Parse("2006-01-02", raw)
}

func createTable(ctx context.Context, db *sql.DB, table string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		employee_id VARCHAR(10) NOT NULL,
		attendance_date DATE NOT NULL,
		check_in_time TIMESTAMPTZ,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_date_employee ON %s(attendance_date, employee_id)", table, table)
	_, err := db.ExecContext(ctx, idx)
	return err
}

// buildEmployees returns the demo roster: 15 chantres, 12 protocoles, 10 regis.
func buildEmployees() []string {
	var out []string
	for i := 1; i <= 15; i++ {
		out = append(out, fmt.Sprintf("C%03d", i))
	}
	for i := 1; i <= 12; i++ {
		out = append(out, fmt.Sprintf("P%03d", i))
	}
	for i := 1; i <= 10; i++ {
		out = append(out, fmt.Sprintf("R%03d", i))
	}
	return out
}

func seedAttendance(ctx context.Context, db *sql.DB, table string, employees []string, start time.Time, days int, rng *rand.Rand) (int, map[string]int, error) {
	insert := fmt.Sprintf("INSERT INTO %s (employee_id, attendance_date, check_in_time, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)", table)
	stmt, err := db.PrepareContext(ctx, insert)
	if err != nil {
		return 0, nil, err
	}
	defer stmt.Close()

	counts := map[string]int{}
	inserted := 0
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for _, emp := range employees {
			status := pickStatus(emp, day, rng)
			checkIn := checkInTime(day, status, rng)
			if _, err := stmt.ExecContext(ctx, emp, day, checkIn, status, checkIn); err != nil {
				return inserted, counts, err
			}
			counts[status]++
			inserted++
		}
	}
	return inserted, counts, nil
}

// pickStatus draws a status from a per-employee behavior profile. A fifth of
// the roster is very reliable, a fifth careless, the rest average. Mondays
// inflate absences and Fridays inflate lateness.
func pickStatus(matricule string, day time.Time, rng *rand.Rand) string {
	weights := []float64{0.75, 0.15, 0.10}
	switch bucket := employeeHash(matricule) % 100; {
	case bucket < 20:
		weights = []float64{0.90, 0.05, 0.05}
	case bucket < 40:
		weights = []float64{0.60, 0.25, 0.15}
	}

	switch day.Weekday() {
	case time.Monday:
		weights[1] *= 1.5
	case time.Friday:
		weights[2] *= 1.3
	}

	total := weights[0] + weights[1] + weights[2]
	draw := rng.Float64() * total
	switch {
	case draw < weights[0]:
		return "Présent"
	case draw < weights[0]+weights[1]:
		return "Absent"
	default:
		return "Retard"
	}
}

func employeeHash(matricule string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(matricule))
	return h.Sum32()
}

// checkInTime picks a plausible clock-in: on time before 08:30, late between
// 08:30 and 10:00, and a placeholder afternoon stamp for absences.
func checkInTime(day time.Time, status string, rng *rand.Rand) time.Time {
	var hour, minute int
	switch status {
	case "Présent":
		hour = 7 + rng.Intn(2)
		minute = rng.Intn(60)
		if hour == 7 && minute < 30 {
			minute += 30
		}
	case "Retard":
		hour = 8 + rng.Intn(3)
		minute = rng.Intn(60)
		if hour == 8 && minute < 30 {
			minute += 30
		}
	default:
		hour = 8 + rng.Intn(10)
		minute = rng.Intn(60)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}
