package middleware

import (
	"bytes"
	"io"
	"time"

	"traydock/logger"
	"traydock/model"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// RequestCounter aggregates request counts for the metrics log
type RequestCounter interface {
	IncrementRequests()
	IncrementErrors()
}

// RequestPolicy decides per request whether it goes to the request log
type RequestPolicy interface {
	LogsRequests() bool
}

// RequestLogger creates a middleware that logs all HTTP requests. Requests
// are always counted; they are written to lfm only while policy allows it.
// A nil lfm disables writing, a nil policy always allows it.
func RequestLogger(lfm *logger.LogFileManager, counter RequestCounter, policy RequestPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Generate request ID
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		startTime := time.Now()

		// Read request body for extracting the session ID
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		sessionID := extractID(bodyBytes, c, "session_id")

		c.Next()

		duration := time.Since(startTime)

		var errorMsg string
		if len(c.Errors) > 0 {
			errorMsg = c.Errors.String()
		}

		// Handlers tag the command and the attached session
		cmd := c.GetString("command")
		if sid := c.GetString("session_id"); sid != "" && sessionID == "" {
			sessionID = sid
		}

		status := c.Writer.Status()
		if counter != nil {
			counter.IncrementRequests()
			if status >= 400 {
				counter.IncrementErrors()
			}
		}
		if lfm == nil || (policy != nil && !policy.LogsRequests()) {
			return
		}

		logEntry := model.RequestLog{
			Timestamp:  startTime,
			RequestID:  requestID,
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Command:    cmd,
			SessionID:  sessionID,
			StatusCode: status,
			DurationMs: duration.Milliseconds(),
			ClientIP:   c.ClientIP(),
			Error:      errorMsg,
		}

		// Write to log file asynchronously. Errors are dropped to avoid
		// logging about logging.
		go func() {
			_ = lfm.WriteJSON(logger.LogRequests, logEntry)
		}()
	}
}

// extractID extracts an ID from the session header, query parameters or
// request body
func extractID(body []byte, c *gin.Context, key string) string {
	if val := c.GetHeader("X-Session-ID"); val != "" {
		return val
	}

	if val := c.Query(key); val != "" {
		return val
	}

	if len(body) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			if val, ok := data[key].(string); ok {
				return val
			}
		}
	}

	return ""
}
