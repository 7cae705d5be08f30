package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osas/osas-backend/pkg/config"
	"github.com/osas/osas-backend/pkg/errors"
	pkghttp "github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// Proxy handles reverse proxying to backend services
type Proxy struct {
	cfg            *config.Config
	log            *logger.Logger
	inventoryProxy *httputil.ReverseProxy
	salesProxy     *httputil.ReverseProxy
	staffProxy     *httputil.ReverseProxy
}

// NewProxy creates a new proxy instance
func NewProxy(cfg *config.Config, log *logger.Logger) *Proxy {
	p := &Proxy{
		cfg: cfg,
		log: log,
	}

	p.inventoryProxy = p.createProxy(cfg.Services.InventoryServiceURL)
	p.salesProxy = p.createProxy(cfg.Services.SalesServiceURL)
	p.staffProxy = p.createProxy(cfg.Services.StaffServiceURL)

	return p
}

func (p *Proxy) createProxy(targetURL string) *httputil.ReverseProxy {
	target, _ := url.Parse(targetURL)

	proxy := httputil.NewSingleHostReverseProxy(target)

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = target.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		p.log.Error().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		pkghttp.Error(w, errors.Internal("service unavailable"))
	}

	return proxy
}

// ForwardToInventory forwards requests to the inventory service
func (p *Proxy) ForwardToInventory(w http.ResponseWriter, r *http.Request) {
	p.inventoryProxy.ServeHTTP(w, r)
}

// ForwardToSales forwards requests to the sales service
func (p *Proxy) ForwardToSales(w http.ResponseWriter, r *http.Request) {
	p.salesProxy.ServeHTTP(w, r)
}

// ForwardToStaff forwards requests to the staff service
func (p *Proxy) ForwardToStaff(w http.ResponseWriter, r *http.Request) {
	p.staffProxy.ServeHTTP(w, r)
}

// AuthMiddleware validates JWT tokens and adds user context
func (p *Proxy) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkghttp.Error(w, errors.Unauthorized("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			pkghttp.Error(w, errors.Unauthorized("invalid authorization header format"))
			return
		}

		tokenString := parts[1]

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(p.cfg.JWT.Secret), nil
		}, jwt.WithIssuer(p.cfg.JWT.Issuer))

		if err != nil {
			p.log.Debug().Err(err).Msg("token validation failed")
			if strings.Contains(err.Error(), "expired") {
				pkghttp.Error(w, errors.TokenExpired())
			} else {
				pkghttp.Error(w, errors.TokenInvalid())
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			pkghttp.Error(w, errors.TokenInvalid())
			return
		}

		// Extract user info from claims
		userID, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		// Add user info to request context
		ctx := pkghttp.WithUserContext(r.Context(), userID, email, role)

		// Add user info to headers for downstream services
		r.Header.Set("X-User-ID", userID)
		r.Header.Set("X-User-Email", email)
		r.Header.Set("X-User-Role", role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
