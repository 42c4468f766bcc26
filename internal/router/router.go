package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meditrack/visit-api/internal/handler"
	"github.com/meditrack/visit-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Timeout        time.Duration
	CORS           middleware.CORSConfig
	MetricsPrefix  string
	Registry       *prometheus.Registry
}

type Router struct {
	engine  *gin.Engine
	visitH  Handler
	h       *handler.Handler
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(visitH Handler, h *handler.Handler, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	r := &Router{
		engine:  engine,
		visitH:  visitH,
		h:       h,
		metrics: initRouterMetrics(config.MetricsPrefix, config.Registry),
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: timeout}),
		middleware.CORS(config.CORS),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{})))

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	health := api.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}

	r.visitH.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string, reg prometheus.Registerer) *routerMetrics {
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		errorTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_request_errors_total",
			Help:      "Total HTTP error responses by method, path and status",
		}, []string{"method", "path", "status"}),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(method, path, status).Inc()
		}
	}
}
