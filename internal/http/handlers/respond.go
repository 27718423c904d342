package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Issue is one field-level validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// errorBody is the uniform error envelope: {message, issues?}.
type errorBody struct {
	Message string  `json:"message"`
	Issues  []Issue `json:"issues,omitempty"`
}

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, errorBody{Message: message})
}

func RespondValidation(ctx *gin.Context, issues []Issue) {
	ctx.JSON(http.StatusBadRequest, errorBody{
		Message: "Validation error",
		Issues:  issues,
	})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message)
}

func RespondForbidden(ctx *gin.Context) {
	RespondError(ctx, http.StatusForbidden, "Forbidden")
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message)
}

// RespondInternal is the terminal responder for unexpected failures: the
// cause is logged server-side, the client sees only the generic message.
func RespondInternal(ctx *gin.Context, err error) {
	slog.Default().ErrorContext(ctx.Request.Context(), "internal error",
		"err", err,
		"method", ctx.Request.Method,
		"path", ctx.Request.URL.Path,
	)

	RespondError(ctx, http.StatusInternalServerError, "Internal error")
}
