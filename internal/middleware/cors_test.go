package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name               string
		origin             string
		path               string
		expectAllowOrigin  string
		expectedStatus     int
		expectNextHandlers bool
	}{
		{
			name:               "AllowedOrigin",
			origin:             "http://localhost:3000",
			path:               "/stats/recovery",
			expectAllowOrigin:  "http://localhost:3000",
			expectedStatus:     http.StatusOK,
			expectNextHandlers: true,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			path:           "/stats/recovery",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:               "NoOrigin",
			path:               "/entries",
			expectedStatus:     http.StatusOK,
			expectNextHandlers: true,
		},
		{
			name:               "McpWithoutOrigin",
			path:               "/mcp",
			expectAllowOrigin:  "*",
			expectedStatus:     http.StatusOK,
			expectNextHandlers: true,
		},
		{
			name:               "McpWithForeignOrigin",
			origin:             "https://agent.example",
			path:               "/mcp",
			expectAllowOrigin:  "https://agent.example",
			expectedStatus:     http.StatusOK,
			expectNextHandlers: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, err := http.NewRequest("GET", tc.path, nil)
			require.NoError(t, err)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			handler := Cors([]string{"http://localhost:3000/"})(nextHandler)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Unexpected status code")
			assert.Equal(t, tc.expectAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.expectNextHandlers, nextCalled)
		})
	}
}
