package httpapi

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formrelay/internal/intake"
	"github.com/dmitrymomot/formrelay/pkg/clientip"
	"github.com/dmitrymomot/formrelay/pkg/file"
	"github.com/dmitrymomot/formrelay/pkg/httpserver"
	"github.com/dmitrymomot/formrelay/pkg/logger"
	"github.com/dmitrymomot/formrelay/pkg/ratelimit"
	"github.com/dmitrymomot/formrelay/pkg/requestid"
)

//go:embed public
var publicFiles embed.FS

// limitKeyPrefix namespaces submit counters inside a shared limiter store.
const limitKeyPrefix = "submit:"

// Processor runs one submission. *intake.Pipeline implements it.
type Processor interface {
	Process(ctx context.Context, in intake.Input) intake.Result
}

// API wires the HTTP routes to the intake pipeline.
type API struct {
	cfg      Config
	pipeline Processor
	policy   file.Policy
	limiter  ratelimit.Limiter
	checks   []httpserver.Check
	metrics  *intake.Metrics
	gatherer prometheus.Gatherer
	resolver *clientip.Resolver
	log      *slog.Logger
	started  time.Time
}

// Option configures an API.
type Option func(*API)

// WithPolicy sets the attachment policy.
func WithPolicy(p file.Policy) Option {
	return func(a *API) { a.policy = p }
}

// WithLimiter rate-limits the submit routes.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(a *API) { a.limiter = l }
}

// WithHealthChecks adds dependency probes to /health.
func WithHealthChecks(checks ...httpserver.Check) Option {
	return func(a *API) { a.checks = append(a.checks, checks...) }
}

// WithMetrics records outcomes on m and serves g on /metrics.
func WithMetrics(m *intake.Metrics, g prometheus.Gatherer) Option {
	return func(a *API) {
		a.metrics = m
		a.gatherer = g
	}
}

// WithClientIPResolver overrides how the client address is found.
func WithClientIPResolver(r *clientip.Resolver) Option {
	return func(a *API) {
		if r != nil {
			a.resolver = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

// WithStartTime sets the reference for the uptime reported by /health.
func WithStartTime(t time.Time) Option {
	return func(a *API) { a.started = t }
}

// New builds the API.
func New(cfg Config, pipeline Processor, opts ...Option) *API {
	a := &API{
		cfg:      cfg,
		pipeline: pipeline,
		policy:   file.NewPolicy(0, nil),
		log:      logger.Nop(),
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.resolver == nil {
		if cfg.TrustProxy {
			a.resolver = clientip.New()
		} else {
			a.resolver = clientip.NewDirect()
		}
	}
	return a
}

// Routes returns the HTTP handler.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		requestid.Middleware,
		a.resolver.Middleware,
		AccessLog(a.log),
		Recoverer(a.log, a.metrics),
		SecureHeaders,
		cors.Handler(cors.Options{
			AllowedOrigins:   a.cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "Authorization", requestid.Header},
			ExposedHeaders:   []string{requestid.Header, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.Get("/health", httpserver.HealthHandler(a.started, a.cfg.HealthTimeout, a.log, a.checks...))
	if a.cfg.MetricsEnabled && a.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if a.limiter != nil {
			r.Use(ratelimit.Middleware(a.limiter, ratelimit.Prefixed(limitKeyPrefix, ratelimit.ByClientIP),
				ratelimit.WithOnLimitReached(a.tooManyRequests),
				ratelimit.WithOnError(a.limiterError),
			))
		}
		r.Post("/submit-form", a.submit(false))
		r.Post("/submit-form-files", a.submit(true))
	})

	static, err := fs.Sub(publicFiles, "public")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServerFS(static))

	return r
}

// bodyLimit is the largest body accepted on the submit routes.
func (a *API) bodyLimit() int64 {
	return a.policy.MaxSize + formOverhead
}

func (a *API) submit(allowFiles bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, a.bodyLimit())

		fields, att, err := decodeRequest(r, a.policy, allowFiles)
		if err != nil {
			res := a.decodeFailure(r, err)
			a.metrics.ObserveOutcome(res.Outcome)
			writeResult(w, res)
			return
		}

		writeResult(w, a.pipeline.Process(r.Context(), intake.Input{
			RequestID:  requestid.FromContext(r.Context()),
			Fields:     fields,
			Referer:    r.Referer(),
			ClientIP:   clientip.FromContext(r.Context()),
			UserAgent:  r.UserAgent(),
			Attachment: att,
			ReceivedAt: time.Now(),
		}))
	}
}

func (a *API) decodeFailure(r *http.Request, err error) intake.Result {
	var (
		typeErr *file.TypeError
		maxErr  *http.MaxBytesError
		res     intake.Result
	)
	switch {
	case errors.As(err, &typeErr):
		res = intake.Reject(http.StatusBadRequest, intake.OutcomeFileRejected, typeErr.Error())
	case errors.Is(err, file.ErrFileTooLarge), errors.As(err, &maxErr):
		res = intake.Reject(http.StatusBadRequest, intake.OutcomeFileRejected, intake.MsgFileTooLarge)
	default:
		res = intake.Reject(http.StatusBadRequest, intake.OutcomeBadRequest, intake.MsgInvalidBody)
	}

	a.log.InfoContext(r.Context(), "submission rejected",
		logger.Component("http"),
		logger.Outcome(string(res.Outcome)),
		logger.Error(err),
	)
	return res
}

func (a *API) tooManyRequests(w http.ResponseWriter, r *http.Request, _ *ratelimit.Result) {
	a.metrics.ObserveOutcome(intake.OutcomeRateLimited)
	a.log.InfoContext(r.Context(), "rate limit reached",
		logger.Component("http"),
		logger.ClientIP(clientip.FromContext(r.Context())),
	)
	writeJSON(w, http.StatusTooManyRequests, intake.Response{
		Success: false,
		Message: intake.MsgTooManyRequests,
	})
}

func (a *API) limiterError(r *http.Request, err error) {
	a.log.WarnContext(r.Context(), "rate limiter unavailable",
		logger.Component("http"),
		logger.Error(err),
	)
}
