package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTrustedSubnetMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		trustedSubnet  string
		clientIP       string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Empty trusted subnet - should deny access",
			trustedSubnet:  "",
			clientIP:       "192.168.1.100",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Access denied\n",
		},
		{
			name:           "Missing X-Real-IP header - should deny access",
			trustedSubnet:  "192.168.1.0/24",
			clientIP:       "",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Access denied\n",
		},
		{
			name:           "Invalid IP address - should deny access",
			trustedSubnet:  "192.168.1.0/24",
			clientIP:       "invalid-ip",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Access denied\n",
		},
		{
			name:           "IP not in trusted subnet - should deny access",
			trustedSubnet:  "192.168.1.0/24",
			clientIP:       "10.0.0.1",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Access denied\n",
		},
		{
			name:           "IP in trusted subnet - should allow access",
			trustedSubnet:  "192.168.1.0/24",
			clientIP:       "192.168.1.100",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:           "IPv6 in trusted subnet - should allow access",
			trustedSubnet:  "2001:db8::/32",
			clientIP:       "2001:db8::1",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:           "IPv4 against IPv6 subnet - should deny access",
			trustedSubnet:  "2001:db8::/32",
			clientIP:       "192.168.1.1",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Access denied\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subnet, err := ParseSubnet(tt.trustedSubnet)
			require.NoError(t, err)

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
			if tt.clientIP != "" {
				req.Header.Set("X-Real-IP", tt.clientIP)
			}
			w := httptest.NewRecorder()

			TrustedSubnetMiddleware(subnet, zap.NewNop())(handler).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestParseSubnet(t *testing.T) {
	subnet, err := ParseSubnet("")
	assert.NoError(t, err)
	assert.Nil(t, subnet, "Empty CIDR means no trusted subnet")
	assert.False(t, subnet.Contains(net.ParseIP("127.0.0.1")))
	assert.Equal(t, "", subnet.String())

	_, err = ParseSubnet("invalid-cidr")
	assert.Error(t, err)

	subnet, err = ParseSubnet("10.1.2.3/8")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8", subnet.String())
	assert.True(t, subnet.Contains(net.ParseIP("10.200.0.1")))
	assert.False(t, subnet.Contains(nil))
}
