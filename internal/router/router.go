package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davideparisimodena/careconnect/internal/handler"
	authHandler "github.com/davideparisimodena/careconnect/internal/handler/auth"
	chatHandler "github.com/davideparisimodena/careconnect/internal/handler/chat"
	directoryHandler "github.com/davideparisimodena/careconnect/internal/handler/directory"
	profileHandler "github.com/davideparisimodena/careconnect/internal/handler/profile"
	requestHandler "github.com/davideparisimodena/careconnect/internal/handler/request"
	"github.com/davideparisimodena/careconnect/internal/middleware"
	"github.com/davideparisimodena/careconnect/internal/model"
)

type Config struct {
	RateLimit      middleware.RateLimiterConfig
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	MetricsPrefix  string
}

type Router struct {
	engine     *gin.Engine
	auth       *middleware.AuthMiddleware
	authH      *authHandler.Handler
	profileH   *profileHandler.Handler
	requestH   *requestHandler.Handler
	chatH      *chatHandler.Handler
	directoryH *directoryHandler.Handler
	h          *handler.Handler
	metrics    *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	profileH *profileHandler.Handler,
	requestH *requestHandler.Handler,
	chatH *chatHandler.Handler,
	directoryH *directoryHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidations()

	engine := gin.New()

	r := &Router{
		engine:     engine,
		auth:       auth,
		authH:      authH,
		profileH:   profileH,
		requestH:   requestH,
		chatH:      chatH,
		directoryH: directoryH,
		h:          h,
		metrics:    initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.CORS(config.CORS),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", r.h.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	r.authH.RegisterRoutes(api)
	r.directoryH.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(r.auth.Authenticate())
	r.profileH.RegisterRoutes(authed)
	r.requestH.RegisterRoutes(authed, r.auth)
	r.chatH.RegisterRoutes(authed)
	r.directoryH.RegisterRoutes(authed)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// registerValidations adds the custom binding rules used by handler
// request structs.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			role := fl.Field().String()
			return role == model.RolePatient || role == model.RoleProfessional
		})
	}
}
