package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (f *fakeCounter) IncrementWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], window, nil
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Limit(t *testing.T) {
	// Arrange
	counter := &fakeCounter{counts: map[string]int64{}}
	rl := NewRateLimiter(counter, logger.NewNop())
	r := gin.New()
	r.POST("/start", rl.Limit(RateLimitConfig{MaxRequests: 2, Window: time.Minute, KeyPrefix: "rl:test"}), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	// Act
	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = serve(r, http.MethodPost, "/start", nil)
		codes = append(codes, last.Code)
	}

	// Assert
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
}

func TestRateLimiter_FailOpen(t *testing.T) {
	counter := &fakeCounter{err: errors.New("redis down")}
	rl := NewRateLimiter(counter, logger.NewNop())
	r := gin.New()
	r.GET("/x", rl.Limit(StartRateLimitConfig()), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", nil)

	assert.Equal(t, http.StatusOK, w.Code, "недоступный счётчик не блокирует запросы")
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(ticket, sessionID string) error {
	switch ticket {
	case "ok-" + sessionID:
		return nil
	case "expired":
		return fmt.Errorf("%w", apperrors.ErrExpiredToken)
	case "bad":
		return fmt.Errorf("%w: malformed", apperrors.ErrUnauthorized)
	}
	return fmt.Errorf("%w: mismatch", apperrors.ErrForbidden)
}

func TestRequireSessionTicket(t *testing.T) {
	r := gin.New()
	r.GET("/quiz/:session", RequireSessionTicket(fakeVerifier{}, "session"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		path       string
		ticket     string
		wantStatus int
	}{
		{"свой тикет", "/quiz/s1", "ok-s1", http.StatusOK},
		{"тикет в query", "/quiz/s1?ticket=ok-s1", "", http.StatusOK},
		{"без тикета", "/quiz/s1", "", http.StatusUnauthorized},
		{"истёк", "/quiz/s1", "expired", http.StatusUnauthorized},
		{"битый", "/quiz/s1", "bad", http.StatusUnauthorized},
		{"чужой", "/quiz/s1", "ok-s2", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.ticket != "" {
				headers[HeaderSessionTicket] = tt.ticket
			}
			w := serve(r, http.MethodGet, tt.path, headers)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	r := gin.New()
	r.Use(AttachTraceContext(), RequestLogger(logger.NewNop()))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	t.Run("генерирует идентификаторы", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/x", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(headerTraceID))
		assert.Equal(t, w.Body.String(), w.Header().Get(headerRequestID))
	})

	t.Run("сохраняет входящие", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/x", map[string]string{headerRequestID: "req-1", headerTraceID: "trace-1"})
		assert.Equal(t, "req-1", w.Header().Get(headerRequestID))
		assert.Equal(t, "trace-1", w.Header().Get(headerTraceID))
	})
}

func TestExtractUintParam(t *testing.T) {
	r := gin.New()
	r.GET("/q/:id", ExtractUintParam("id", ContextQuestionID), func(c *gin.Context) {
		id, ok := UintParam(c, ContextQuestionID)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"число", "/q/12", http.StatusOK},
		{"ноль", "/q/0", http.StatusBadRequest},
		{"отрицательное", "/q/-1", http.StatusBadRequest},
		{"не число", "/q/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestExtractUintParam_ReportsField(t *testing.T) {
	// Arrange
	r := gin.New()
	r.GET("/q/:id", ExtractUintParam("id", ContextQuestionID), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Act
	w := serve(r, http.MethodGet, "/q/abc", nil)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error  string                `json:"error"`
		Fields apperrors.FieldErrors `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "id", body.Fields[0].Field)
	assert.Equal(t, "abc", body.Fields[0].Value)
	assert.Contains(t, body.Error, "id must be a positive integer")
}

func TestUintParam_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UintParam(c, ContextQuestionID)
	assert.False(t, ok)
}
