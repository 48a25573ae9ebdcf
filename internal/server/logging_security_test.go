package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_RedactsCredentialHeaders(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	// Header logging only happens at debug level.
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := loggingMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/consumable/use", nil)
	req.Header.Set(HeaderAPIKey, "gbax-prod-key-77")
	req.Header.Set(HeaderAuthorization, "Bearer ledger-token")
	req.Header.Set("User-Agent", "gbax-ui/1.4")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)

	assert.NotContains(t, out, "gbax-prod-key-77")
	assert.NotContains(t, out, "ledger-token")
	assert.Contains(t, out, RedactedValue)

	// Non-credential headers still reach the log.
	assert.Contains(t, out, "gbax-ui/1.4")
}
