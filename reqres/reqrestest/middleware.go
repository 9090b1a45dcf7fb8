package reqrestest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/webframe/logger"
)

// requestID echoes or assigns an X-Request-Id.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(logger.FieldRequestID, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// requestLogger logs each request at a level picked by its status.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			logger.FieldMethod, c.Request.Method,
			"path", c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldRequestID, c.GetString(logger.FieldRequestID),
		)
		fields = logger.MergeWithDuration(fields, time.Since(start))

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}

// recovery turns handler panics into a 500 JSON body.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
				))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// record captures the request and rewinds its body for the handlers.
func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.Query(),
			Header: c.Request.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		c.Next()
	}
}

// apiKey rejects requests whose x-api-key does not match, as reqres.in
// does for keyed plans.
func apiKey(header, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(header) != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing API key"})
			return
		}
		c.Next()
	}
}
