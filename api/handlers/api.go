package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/api/scheduler"
	"github.com/linesmerrill/crime-report-api/config"
	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/mailer"
	"github.com/linesmerrill/crime-report-api/services"
	"github.com/linesmerrill/crime-report-api/storage"
)

// connectTimeout bounds the startup connection to the database
const connectTimeout = 15 * time.Second

// metricsTraces is how many request traces the metrics collector keeps
const metricsTraces = 1000

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	Hub       *NotificationHub

	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
	tx       databases.Transactor
	storage  services.BlobStorage
	mailer   services.Mailer
	counter  api.Counter
	lock     scheduler.Locker
	redis    *redis.Client
	metrics  *api.MetricsCollector
	auth     *api.Authenticator
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	a.defaults()

	users := databases.NewUserDatabase(a.dbHelper)
	officers := databases.NewOfficerDatabase(a.dbHelper)
	stations := databases.NewStationDatabase(a.dbHelper)
	cases := databases.NewCaseDatabase(a.dbHelper)
	updates := databases.NewCaseUpdateDatabase(a.dbHelper)
	evidence := databases.NewEvidenceDatabase(a.dbHelper)
	interviews := databases.NewInterviewDatabase(a.dbHelper)
	notifications := databases.NewNotificationDatabase(a.dbHelper)

	tokens := services.NewTokenIssuer(a.Config.JWTSecret, a.Config.TokenTTL)
	a.auth = api.NewAuthenticator(tokens, services.NewIdentityService(users, officers), a.Config.TokenTTL)
	a.Hub = NewNotificationHub(a.auth, a.Config.AllowedOrigins)
	notifier := services.NewNotifier(notifications, a.Hub, a.mailer)

	interviewService := &services.InterviewService{
		Cases: cases, Updates: updates, Officers: officers, Users: users,
		Interviews: interviews, Notifier: notifier, Tx: a.tx,
	}
	a.Scheduler = scheduler.NewScheduler(interviewService, a.lock)

	u := User{Service: services.NewUserService(users, tokens), Auth: a.auth}
	o := Officer{Service: services.NewOfficerService(users, officers, stations, tokens), Auth: a.auth}
	c := Case{Service: services.NewCaseService(cases, updates, officers, notifier, a.tx)}
	e := Evidence{Service: &services.EvidenceService{
		Cases: cases, Updates: updates, Evidence: evidence, Officers: officers, Users: users,
		Storage: a.storage, Notifier: notifier, Tx: a.tx,
	}}
	i := Interview{Service: interviewService}
	n := Notification{Service: notifier}
	s := Statistics{Service: &services.StatisticsService{Cases: cases, Officers: officers, Evidence: evidence, Interviews: interviews}}
	m := MetricsHandler{Collector: a.metrics}
	limiter := &api.RateLimiter{Counter: a.counter, Limit: a.Config.RateLimitRPM, Window: time.Minute}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware(a.metrics))

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/ws/notifications", a.Hub.ServeWS).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(limiter.Middleware, api.TimeoutMiddleware(a.Config.RequestTimeout))

	apiCreate.Handle("/auth/register", http.HandlerFunc(u.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/login", http.HandlerFunc(u.LoginHandler)).Methods("POST")
	apiCreate.Handle("/auth/officer-login", http.HandlerFunc(o.LoginHandler)).Methods("POST")
	apiCreate.Handle("/auth/logout", a.auth.Middleware(http.HandlerFunc(a.auth.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/me", a.auth.Middleware(http.HandlerFunc(u.MeHandler))).Methods("GET")

	apiCreate.Handle("/users/{user_id}", a.auth.Middleware(http.HandlerFunc(u.UserByIDHandler))).Methods("GET")
	apiCreate.Handle("/users/{user_id}/role", a.auth.Middleware(http.HandlerFunc(u.UpdateRoleHandler))).Methods("PUT")

	apiCreate.Handle("/officers", a.auth.Middleware(http.HandlerFunc(o.CreateOfficerHandler))).Methods("POST")
	apiCreate.Handle("/officers/{officer_id}", a.auth.Middleware(http.HandlerFunc(o.OfficerByIDHandler))).Methods("GET")
	apiCreate.Handle("/officers/{officer_id}/status", a.auth.Middleware(http.HandlerFunc(o.UpdateStatusHandler))).Methods("PUT")
	apiCreate.Handle("/officers/{officer_id}/interviews", a.auth.Middleware(http.HandlerFunc(i.OfficerInterviewsHandler))).Methods("GET")
	apiCreate.Handle("/stations", a.auth.Middleware(http.HandlerFunc(o.StationsHandler))).Methods("GET")
	apiCreate.Handle("/stations", a.auth.Middleware(http.HandlerFunc(o.CreateStationHandler))).Methods("POST")
	apiCreate.Handle("/stations/{station_id}/officers", a.auth.Middleware(http.HandlerFunc(o.StationOfficersHandler))).Methods("GET")

	apiCreate.Handle("/reports", a.auth.OptionalMiddleware(http.HandlerFunc(c.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/cases", a.auth.Middleware(http.HandlerFunc(c.CasesHandler))).Methods("GET")
	apiCreate.Handle("/cases/{case_id}", a.auth.Middleware(http.HandlerFunc(c.CaseByIDHandler))).Methods("GET")
	apiCreate.Handle("/cases/{case_id}/status", a.auth.Middleware(http.HandlerFunc(c.UpdateStatusHandler))).Methods("PUT")
	apiCreate.Handle("/cases/{case_id}/assignment", a.auth.Middleware(http.HandlerFunc(c.AssignmentHandler))).Methods("PUT")
	apiCreate.Handle("/cases/{case_id}/updates", a.auth.Middleware(http.HandlerFunc(c.AddUpdateHandler))).Methods("POST")
	apiCreate.Handle("/cases/{case_id}/updates", a.auth.Middleware(http.HandlerFunc(c.UpdatesHandler))).Methods("GET")

	apiCreate.Handle("/evidence/upload-url", a.auth.Middleware(http.HandlerFunc(e.UploadURLHandler))).Methods("POST")
	apiCreate.Handle("/cases/{case_id}/evidence", a.auth.Middleware(http.HandlerFunc(e.AddEvidenceHandler))).Methods("POST")
	apiCreate.Handle("/cases/{case_id}/evidence", a.auth.Middleware(http.HandlerFunc(e.CaseEvidenceHandler))).Methods("GET")
	apiCreate.Handle("/evidence/{evidence_id}/verify", a.auth.Middleware(http.HandlerFunc(e.VerifyHandler))).Methods("PUT")
	apiCreate.Handle("/evidence/{evidence_id}", a.auth.Middleware(http.HandlerFunc(e.DeleteHandler))).Methods("DELETE")

	apiCreate.Handle("/interviews", a.auth.Middleware(http.HandlerFunc(i.ScheduleHandler))).Methods("POST")
	apiCreate.Handle("/interviews/{interview_id}/status", a.auth.Middleware(http.HandlerFunc(i.UpdateStatusHandler))).Methods("PUT")

	apiCreate.Handle("/notifications", a.auth.Middleware(http.HandlerFunc(n.NotificationsHandler))).Methods("GET")
	apiCreate.Handle("/notifications/{notification_id}/read", a.auth.Middleware(http.HandlerFunc(n.MarkReadHandler))).Methods("PUT")

	apiCreate.Handle("/statistics", a.auth.Middleware(http.HandlerFunc(s.NationalHandler))).Methods("GET")
	apiCreate.Handle("/metrics", a.auth.Middleware(http.HandlerFunc(m.GetMetricsDashboard))).Methods("GET")

	return r
}

// defaults fills in the in-process fallbacks for every optional backend that Initialize
// did not set up
func (a *App) defaults() {
	if a.tx == nil {
		a.tx = databases.SequentialTransactor{}
	}
	if a.storage == nil {
		a.storage = storage.Unconfigured{}
	}
	if a.counter == nil {
		a.counter = api.NewMemoryCounter()
	}
	if a.metrics == nil {
		a.metrics = api.NewMetricsCollector(metricsTraces)
	}
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	if err := client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("crime-report-api has connected to the database")

	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	a.tx = databases.NewTransactor(client, a.Config.UseTransactions)

	if a.Config.CloudinaryURL != "" {
		cld, err := storage.NewCloudinary(a.Config.CloudinaryURL, storage.DefaultFolder)
		if err != nil {
			return fmt.Errorf("initialize cloudinary: %w", err)
		}
		a.storage = cld
	} else {
		zap.S().Warn("CLOUDINARY_URL is not set, evidence uploads are disabled")
	}

	if a.Config.SendgridAPIKey != "" {
		a.mailer = mailer.NewSendGrid(a.Config.SendgridAPIKey, a.Config.MailFrom)
	} else {
		zap.S().Warn("SENDGRID_API_KEY is not set, emails will not be sent")
	}

	if a.Config.RedisURL != "" {
		counter, err := api.NewRedisCounter(a.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("initialize redis: %w", err)
		}
		a.redis = counter.Client
		a.counter = counter
		a.lock = &scheduler.RedisLock{Client: counter.Client}
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Close releases the database and redis connections
func (a *App) Close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.S().Warnw("failed to close redis", "error", err)
		}
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			zap.S().Warnw("failed to disconnect from database", "error", err)
		}
	}
}
