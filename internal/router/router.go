package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"legumes/docs"
	"legumes/internal/config"
	apperrors "legumes/internal/errors"
	"legumes/internal/handler"
	"legumes/internal/logging"
	"legumes/internal/model"
)

// Authenticator resolves a bearer token to the caller's account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Account, error)
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logging.Logger,
	auth Authenticator,
	counter Counter,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	vendorHandler *handler.VendorHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/", handler.Root)
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/login", authHandler.Login, RateLimit(counter, "login", cfg.LoginRateLimit))
	e.POST("/user", userHandler.CreateUser)
	e.GET("/vendor/list", vendorHandler.List)

	// Secured routes (require a token the identity provider accepts)
	secured := e.Group("/vendor", echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.AccountContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return auth.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: unauthorized,
	}))

	secured.PUT("/update/:id", vendorHandler.Update)
	secured.DELETE("/delete/:id", vendorHandler.Delete)
	secured.POST("/photo-upload", vendorHandler.PhotoUpload)
}

// unauthorized renders token failures in the common failure shape.
func unauthorized(c echo.Context, err error) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.New(apperrors.KindUnauthorized, "Unauthorized", err)
	}
	httpErr := apperrors.MapErrorToHTTP(appErr)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToFailureResponse())
}

func requestLogger(log logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			ctx := c.Request().Context()
			if v.Error != nil {
				log.Warn(ctx, "request failed", append(args, "error", v.Error)...)
				return nil
			}
			log.Info(ctx, "request", args...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
