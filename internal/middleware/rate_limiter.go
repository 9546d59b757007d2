package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
)

// DefaultParamKey is the query parameter used for per-param rate limiting.
const DefaultParamKey = "city"

// RateLimiterConfig holds per-minute rates and bursts for both limiter tiers.
type RateLimiterConfig struct {
	GlobalPerMinute float64
	GlobalBurst     int
	ParamPerMinute  float64
	ParamBurst      int
	// ParamKey defaults to DefaultParamKey.
	ParamKey string
	// CleanupTimeout is how long a visitor may stay idle before it is evicted.
	CleanupTimeout time.Duration
}

// visitor holds the rate limiter and last seen time for a specific key.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a global per-IP limit and a per-IP-per-param limit.
type RateLimiter struct {
	cfg RateLimiterConfig

	muGlobal       sync.Mutex
	globalVisitors map[string]*visitor // key: ip

	muParam       sync.Mutex
	paramVisitors map[string]map[string]*visitor // key: ip -> paramValue -> visitor
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.ParamKey == "" {
		cfg.ParamKey = DefaultParamKey
	}
	if cfg.CleanupTimeout <= 0 {
		cfg.CleanupTimeout = 3 * time.Minute
	}
	return &RateLimiter{
		cfg:            cfg,
		globalVisitors: make(map[string]*visitor),
		paramVisitors:  make(map[string]map[string]*visitor),
	}
}

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func (rl *RateLimiter) getGlobalLimiter(ip string) *rate.Limiter {
	rl.muGlobal.Lock()
	defer rl.muGlobal.Unlock()
	v, exists := rl.globalVisitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(rl.cfg.GlobalPerMinute/60.0), rl.cfg.GlobalBurst)
		rl.globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getParamLimiter returns the rate limiter for the given IP address and parameter value, creating one if it does not exist.
func (rl *RateLimiter) getParamLimiter(ip, param string) *rate.Limiter {
	rl.muParam.Lock()
	defer rl.muParam.Unlock()
	if _, ok := rl.paramVisitors[ip]; !ok {
		rl.paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := rl.paramVisitors[ip][param]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(rl.cfg.ParamPerMinute/60.0), rl.cfg.ParamBurst)
		rl.paramVisitors[ip][param] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup removes visitors that have not been seen for longer than the cleanup timeout.
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.muGlobal.Lock()
	for ip, v := range rl.globalVisitors {
		if now.Sub(v.lastSeen) > rl.cfg.CleanupTimeout {
			delete(rl.globalVisitors, ip)
		}
	}
	rl.muGlobal.Unlock()

	rl.muParam.Lock()
	for ip, paramMap := range rl.paramVisitors {
		for param, v := range paramMap {
			if now.Sub(v.lastSeen) > rl.cfg.CleanupTimeout {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(rl.paramVisitors, ip)
		}
	}
	rl.muParam.Unlock()
}

// StartCleanup evicts stale visitors every minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.cleanup(now)
			}
		}
	}()
}

// Reset clears all visitor state. Used primarily for testing.
func (rl *RateLimiter) Reset() {
	rl.muGlobal.Lock()
	rl.globalVisitors = make(map[string]*visitor)
	rl.muGlobal.Unlock()
	rl.muParam.Lock()
	rl.paramVisitors = make(map[string]map[string]*visitor)
	rl.muParam.Unlock()
}

// visitorCount reports the number of tracked IPs in each tier.
func (rl *RateLimiter) visitorCount() (global, param int) {
	rl.muGlobal.Lock()
	global = len(rl.globalVisitors)
	rl.muGlobal.Unlock()
	rl.muParam.Lock()
	param = len(rl.paramVisitors)
	rl.muParam.Unlock()
	return global, param
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// Middleware returns an HTTP middleware that enforces global and per-parameter rate limiting.
// If the rate limit is exceeded, it responds with a 429 status and a JSON error message.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		param := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(rl.cfg.ParamKey)))
		if param == "" {
			// If param is missing, treat as a single bucket
			param = "__none__"
		}
		if !rl.getGlobalLimiter(ip).Allow() {
			writeTooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", rl.cfg.GlobalPerMinute),
				"Too Many Requests (global limit)")
			return
		}
		if !rl.getParamLimiter(ip, param).Allow() {
			writeTooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per unique %s per user/IP", rl.cfg.ParamPerMinute, rl.cfg.ParamKey),
				"Too Many Requests (per-param limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeTooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.Response{
		Error:   &errMsg,
		Message: message,
	})
}
