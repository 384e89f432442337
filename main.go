package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	alertapp "pointage-cloud/internal/alerts/application"
	alertnotify "pointage-cloud/internal/alerts/notify"
	"pointage-cloud/internal/analytics"
	apihttp "pointage-cloud/internal/api/http"
	attendance "pointage-cloud/internal/attendance/domain"
	attendancerepo "pointage-cloud/internal/attendance/infrastructure/postgres"
	"pointage-cloud/internal/audit"
	"pointage-cloud/internal/auth"
	"pointage-cloud/internal/chatbot"
	"pointage-cloud/internal/observability/metrics"
	"pointage-cloud/internal/prediction"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)
	clock := systemClock{}

	query := attendancerepo.NewAttendanceQuery(db, attendancerepo.WithTable(cfg.AttendanceTable))
	source := attendance.NewFailClosedSource(query, logger)
	writer := attendancerepo.NewAttendanceRepository(db, attendancerepo.WithRepositoryTable(cfg.AttendanceTable))

	analyticsService, err := analytics.NewService(query, clock)
	if err != nil {
		logger.Fatalf("analytics service error: %v", err)
	}

	alertCfg, err := alertapp.LoadConfig()
	if err != nil {
		logger.Fatalf("alerts config error: %v", err)
	}
	alertOpts := []alertapp.Option{alertapp.WithWindowDays(alertCfg.WindowDays)}
	if alertCfg.Gateway.Configured() && len(alertCfg.PhoneNumbers) > 0 {
		channel, err := alertnotify.NewSMSChannel(alertCfg.Gateway.URL, alertCfg.Gateway.AccountSID, alertCfg.Gateway.AuthToken, alertCfg.Gateway.FromNumber)
		if err != nil {
			logger.Fatalf("sms channel error: %v", err)
		}
		tpl, err := alertnotify.NewTemplate(alertCfg.Template)
		if err != nil {
			logger.Fatalf("alert template error: %v", err)
		}
		notifier, err := alertnotify.NewNotifier(channel, tpl, alertCfg.PhoneNumbers, clock, logger)
		if err != nil {
			logger.Fatalf("alert notifier error: %v", err)
		}
		alertOpts = append(alertOpts, alertapp.WithNotifier(notifier))
	}
	alertService, err := alertapp.NewService(source, clock, logger, alertOpts...)
	if err != nil {
		logger.Fatalf("alert service error: %v", err)
	}

	engine, err := prediction.NewEngine(source, clock)
	if err != nil {
		logger.Fatalf("prediction engine error: %v", err)
	}

	interpreter, err := chatbot.NewInterpreter(source, clock, alertService, engine, logger)
	if err != nil {
		logger.Fatalf("chatbot interpreter error: %v", err)
	}

	scheduler := cron.New()
	spec, err := cronSpecFromDailyAt(alertCfg.DailyAt)
	if err != nil {
		logger.Fatalf("alert schedule error: %v", err)
	}
	if _, err := scheduler.AddFunc(spec, func() {
		alertService.Sweep(context.Background())
	}); err != nil {
		logger.Fatalf("alert schedule error: %v", err)
	}
	scheduler.Start()
	logger.Printf("alert sweep scheduled daily at %s", alertCfg.DailyAt)

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, []string{"/checkin/"})
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)
	checkinAuth := auth.NewCheckinAuthMiddleware([]byte(cfg.CheckinSecret), time.Duration(cfg.CheckinSkewSeconds)*time.Second)

	mux := http.NewServeMux()
	mux.Handle("/checkin/attendance", checkinAuth.Wrap(apihttp.NewCheckinHandler(writer, clock, logger)))
	mux.Handle("/api/v1/stats", apihttp.NewStatsHandler(analyticsService))
	alertsHandler := apihttp.NewAlertsHandler(alertService)
	mux.Handle("/api/v1/alerts", alertsHandler)
	mux.Handle("/api/v1/alerts/notify", alertsHandler)
	mux.Handle("/api/v1/chatbot", apihttp.NewChatbotHandler(interpreter))
	mux.Handle("/api/v1/predictions/", apihttp.NewPredictionHandler(engine, clock))
	mux.Handle("/api/v1/risk/", apihttp.NewRiskHandler(engine))
	mux.Handle("/api/v1/exports/", apihttp.NewExportHandler(analyticsService, clock, auditRepo, logger))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL        string
	HTTPAddr           string
	AttendanceTable    string
	JWTSecret          string
	CheckinSecret      string
	CheckinSkewSeconds int
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:        getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:           getenvDefault("HTTP_ADDR", ":8080"),
		AttendanceTable:    getenvDefault("ATTENDANCE_TABLE", "attendance"),
		JWTSecret:          getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		CheckinSecret:      getenvDefault("CHECKIN_HMAC_SECRET", ""),
		CheckinSkewSeconds: getenvIntDefault("CHECKIN_MAX_SKEW_SECONDS", 300),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// cronSpecFromDailyAt turns a "HH:MM" wall time into a 5-field cron spec.
func cronSpecFromDailyAt(dailyAt string) (string, error) {
	parts := strings.Split(strings.TrimSpace(dailyAt), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("daily_at %q: want HH:MM", dailyAt)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("daily_at %q: bad hour", dailyAt)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("daily_at %q: bad minute", dailyAt)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
