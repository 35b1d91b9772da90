package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/auth"
	apperrors "github.com/Sihamkassim/Gursha-diaries-Backend/internal/errors"
)

// MessageResponse is the body of operations that only report success.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// errBadBody is returned when a request body cannot be decoded.
var errBadBody = apperrors.Validation("Invalid request body")

// ErrorHandler renders every failure as {success:false,message}. Domain errors
// map through their kind; internal causes are logged and never sent.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			message string
			he      *echo.HTTPError
		)
		switch {
		case errors.As(err, new(*apperrors.Error)):
			mapped := apperrors.MapErrorToHTTP(err)
			status, message = mapped.StatusCode, mapped.Message
		case errors.As(err, &he):
			status = he.Code
			if s, isString := he.Message.(string); isString {
				message = s
			} else {
				message = fmt.Sprint(he.Message)
			}
		default:
			status, message = http.StatusInternalServerError, "Server error"
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, apperrors.NewHTTPError(status, message).ToErrorResponse())
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}

// ClaimsFrom returns the session claims placed in the context by the auth
// middleware.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, isClaims := c.Get(ContextKeyUser).(*auth.Claims)
	return claims, isClaims && claims != nil
}

// ContextKeyUser is where the auth middleware stores *auth.Claims.
const ContextKeyUser = "user"
