package logging_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/warp/shift-pay/logging"
)

func TestMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, `"level":"info"`},
		{http.StatusNotFound, `"level":"warn"`},
		{http.StatusInternalServerError, `"level":"error"`},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			h := logging.Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/summary", nil))

			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), `"path":"/api/summary"`)
			assert.Contains(t, buf.String(), `"method":"GET"`)
		})
	}
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	logging.Init(&buf, "chatty")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "unknown log level")

	logging.Init(&buf, "DEBUG")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
