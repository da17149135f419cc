// Package middleware содержит HTTP middleware: логирование запросов
// и проверку доверенной подсети для служебных эндпоинтов.
package middleware

import (
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// Subnet доверенная подсеть. Нулевой указатель запрещает доступ всем.
type Subnet struct {
	network *net.IPNet
}

// ParseSubnet разбирает подсеть в CIDR-нотации. Для пустой строки возвращает nil.
func ParseSubnet(cidr string) (*Subnet, error) {
	if cidr == "" {
		return nil, nil
	}
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("parse trusted subnet: %w", err)
	}
	return &Subnet{network: network}, nil
}

// String возвращает подсеть в CIDR-нотации
func (s *Subnet) String() string {
	if s == nil {
		return ""
	}
	return s.network.String()
}

// Contains проверяет, входит ли адрес в подсеть
func (s *Subnet) Contains(ip net.IP) bool {
	return s != nil && ip != nil && s.network.Contains(ip)
}

// TrustedSubnetMiddleware создаёт middleware для проверки IP-адреса в доверенной подсети.
// Адрес клиента берётся из заголовка X-Real-IP.
func TrustedSubnetMiddleware(subnet *Subnet, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := r.Header.Get("X-Real-IP")
			deny := func(reason string) {
				logger.Warn("Access denied: "+reason,
					zap.String("method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.String("client_ip", clientIP),
					zap.String("trusted_subnet", subnet.String()),
					zap.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Access denied", http.StatusForbidden)
			}

			switch {
			case subnet == nil:
				deny("trusted subnet is not configured")
				return
			case clientIP == "":
				deny("X-Real-IP header is missing")
				return
			}

			ip := net.ParseIP(clientIP)
			if ip == nil {
				deny("invalid IP address in X-Real-IP header")
				return
			}
			if !subnet.Contains(ip) {
				deny("IP not in trusted subnet")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
