package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quillhaven/contest-registry/internal/contest"
	"github.com/quillhaven/contest-registry/internal/notification"
	"github.com/quillhaven/contest-registry/internal/registration"
	registrationrepo "github.com/quillhaven/contest-registry/internal/registration/repo"
	"github.com/quillhaven/contest-registry/internal/user"
	"github.com/quillhaven/contest-registry/pkg/queue"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// The route shapes mirror the pre-existing contests API so current consumers
// keep working unchanged.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, mail *redis.Client, mailCfg queue.Config) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// contest CRUD
	contestHandler := contest.NewHandler(db, logger)
	mux.HandleFunc("POST /contests", contestHandler.Create)
	mux.HandleFunc("GET /contests", contestHandler.List)
	mux.HandleFunc("GET /contests/{id}", contestHandler.Get)
	mux.HandleFunc("PUT /contests/{id}", contestHandler.Update)
	mux.HandleFunc("DELETE /contests/{id}", contestHandler.Delete)
	mux.HandleFunc("GET /contests/getcontestsbyuser/{user_id}", contestHandler.ListByUser)

	// user read side
	userHandler := user.NewHandler(db, logger)
	mux.HandleFunc("GET /contests/users", userHandler.List)
	mux.HandleFunc("GET /contests/get_user_by_email/{email}", userHandler.GetByEmail)

	// join + notification
	regCfg := registration.ConfigFromEnv()
	regCfg.PublishTimeout = mailCfg.Timeout
	publisher := notification.NewRedisPublisher(mail, mailCfg.QueueName)
	regSvc := registration.NewService(registrationrepo.NewStore(db), publisher, logger, regCfg)
	regHandler := registration.NewHandler(regSvc, logger)
	mux.HandleFunc("POST /contests/{id}/add_new_partecipant", regHandler.Join)

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
