package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/handlers"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/middleware"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

type RouterDeps struct {
	Handler        *handlers.Handler
	Tokens         *utils.TokenIssuer
	Cache          *redis.Client
	OTPLimits      middleware.OTPLimits
	AllowedOrigins []string
	Readiness      map[string]handlers.Pinger
	Logger         *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  d.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
	}))

	r.GET("/healthz", handlers.Liveness)
	r.GET("/readyz", handlers.Readiness(d.Readiness))

	h := d.Handler
	v1 := r.Group("/v1")
	v1.Use(middleware.OptionalAuth(d.Tokens))
	{
		v1.POST("/provisionCredential", h.ProvisionCredential)
		v1.POST("/verifyClientRecord", h.VerifyClientRecord)
		v1.POST("/issueOtp", middleware.OTPRateLimit(d.Cache, d.OTPLimits, d.Logger), h.IssueOtp)
		v1.POST("/lookupClientByLoginOrMobile", h.LookupClientByLoginOrMobile)
		v1.POST("/signInWithPassword", h.SignInWithPassword)
	}
	return r
}
