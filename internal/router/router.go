package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Sihamkassim/Gursha-diaries-Backend/docs"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/auth"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/config"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/handler"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/logging"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/metrics"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/validation"
)

const bodyLimit = "1M"

// Deps groups what Register needs besides the echo instance.
type Deps struct {
	Config      *config.Config
	Tokens      *auth.TokenService
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Validator   *validation.Validator
	AuthHandler *handler.AuthHandler
	ItemHandler *handler.ItemHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	cfg := d.Config
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	e.Validator = &CustomValidator{validator: d.Validator}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(requestLogger(logger))
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Hello from the server"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := Authenticate(d.Tokens)
	api := e.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/signup", d.AuthHandler.Signup)
	authRoutes.POST("/signin", d.AuthHandler.Signin)
	authRoutes.POST("/signout", d.AuthHandler.Signout)
	authRoutes.PATCH("/send-verification-code", d.AuthHandler.SendVerificationCode)
	authRoutes.POST("/send-verification-code", d.AuthHandler.SendVerificationCode)
	authRoutes.POST("/verify-verification-code", d.AuthHandler.VerifyVerificationCode)
	authRoutes.POST("/change-password", d.AuthHandler.ChangePassword, requireAuth)
	authRoutes.POST("/send-forgot-password-code", d.AuthHandler.SendForgotPasswordCode)
	authRoutes.PATCH("/send-forgot-password-code", d.AuthHandler.SendForgotPasswordCode)
	authRoutes.POST("/verify-forgot-password-code", d.AuthHandler.VerifyForgotPasswordCode)

	api.GET("/all-items", d.ItemHandler.ListItems)
	api.GET("/items", d.ItemHandler.SearchItems)
	api.GET("/items/:id", d.ItemHandler.GetItem)
	api.GET("/category/:category", d.ItemHandler.ItemsByCategory)

	// Secured per route; a group middleware would also catch unknown /api paths.
	api.POST("/itemss", d.ItemHandler.CreateItem, requireAuth)
	api.PUT("/itemss/:id", d.ItemHandler.UpdateItem, requireAuth)
	api.DELETE("/itemss/:id", d.ItemHandler.DeleteItem, requireAuth)
	api.POST("/comments", d.ItemHandler.AddComment, requireAuth)
}

// Authenticate verifies the session token from the Authorization header or
// cookie and stores its claims under handler.ContextKeyUser. A missing token
// is rejected with 403, a bad or expired one with 401.
func Authenticate(tokens *auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ContextKeyUser,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + handler.AuthCookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Verify(stripBearer(token))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var parseErr *echojwt.TokenParsingError
			if errors.As(err, &parseErr) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Invalid or expired token")
			}
			return echo.NewHTTPError(http.StatusForbidden, "Unauthorized: No token provided")
		},
	})
}

// stripBearer removes the scheme the cookie value carries.
func stripBearer(token string) string {
	for _, prefix := range []string{"Bearer ", "Bearer%20"} {
		if strings.HasPrefix(token, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(token, prefix))
		}
	}
	return token
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validation.Validator
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
