package middlewares

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/atlasgate/countryhub/internal/domain/apilog"
	"github.com/gin-gonic/gin"
)

// maximum path length on emitted log lines; stored rows always carry the
// full original path so the trail stays filterable
const maxLoggedPathLen = 120

type LogWriter interface {
	Insert(ctx context.Context, e apilog.Entry) error
}

// IdentityResolver is the best-effort token lookup: it never errors, a
// bad token is simply no identity.
type IdentityResolver interface {
	TryResolveUserID(token string) (string, bool)
}

// AccessLog writes one ApiLog row per completed request. It is mounted
// first in the chain so it observes every route, including unmatched
// paths and requests that panic further down.
type AccessLog struct {
	writer   LogWriter
	resolver IdentityResolver
	log      *slog.Logger
}

func NewAccessLog(writer LogWriter, resolver IdentityResolver, log *slog.Logger) *AccessLog {
	return &AccessLog{
		writer:   writer,
		resolver: resolver,
		log:      log,
	}
}

func (a *AccessLog) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Resolved before the handlers run so a login response cannot
		// influence the attributed identity.
		var userID *string

		if id, ok := a.resolver.TryResolveUserID(BearerToken(c)); ok {
			userID = &id
		}

		c.Next()

		entry := apilog.Entry{
			UserID:     userID,
			Method:     c.Request.Method,
			Path:       c.Request.URL.RequestURI(),
			StatusCode: c.Writer.Status(),
			IP:         clientIP(c),
			DurationMs: time.Since(start).Milliseconds(),
			CreatedAt:  time.Now().UTC(),
		}

		if ua := c.Request.UserAgent(); ua != "" {
			entry.UserAgent = &ua
		}

		// The client already has its response; the write happens on the
		// request's own goroutine with a detached context so a canceled
		// request context cannot abort it.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.writer.Insert(ctx, entry); err != nil {
			// never propagates: the trail is best-effort by contract
			a.log.Error("access log write failed",
				"err", err,
				"method", entry.Method,
				"path", shortPath(entry.Path),
				"status", entry.StatusCode,
			)
		}
	}
}

func shortPath(path string) string {
	if len(path) <= maxLoggedPathLen {
		return path
	}

	cut := maxLoggedPathLen - 3

	// back up to a rune boundary so the cut never splits a sequence
	for cut > 0 && !utf8.RuneStart(path[cut]) {
		cut--
	}

	return path[:cut] + "..."
}
