package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const otpKeyPrefix = "otp:issue"

type OTPLimits struct {
	Cooldown  time.Duration
	Window    time.Duration
	MaxPerWin int
}

// otpThrottle runs atomically. It checks the cooldown without claiming it, counts the
// request in the window (re-arming a window key that lost its expiry), and claims the
// cooldown only for an accepted request.
// KEYS: cooldown, window. ARGV: cooldown ms, window ms, max per window.
// Returns {outcome, n}: outcome 0 accepted (n = remaining, -1 when uncounted),
// 1 cooling down, 2 window exhausted (n = ms to retry).
var otpThrottle = redis.NewScript(`
local cooldown = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

local wait = redis.call('PTTL', KEYS[1])
if wait > 0 then
	return {1, wait}
end

local remaining = -1
if window > 0 and max > 0 then
	local n = redis.call('INCR', KEYS[2])
	if redis.call('PTTL', KEYS[2]) < 0 then
		redis.call('PEXPIRE', KEYS[2], window)
	end
	if n > max then
		return {2, redis.call('PTTL', KEYS[2])}
	end
	remaining = max - n
end

if cooldown > 0 then
	redis.call('SET', KEYS[1], '1', 'PX', cooldown)
end
return {0, remaining}
`)

const (
	throttleAccepted = iota
	throttleCoolingDown
	throttleWindowExhausted
)

// OTPRateLimit throttles code issuance per mobile number: one request per cooldown and at
// most MaxPerWin per window. It fails open when Redis is absent or erroring.
func OTPRateLimit(cache *redis.Client, limits OTPLimits, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache == nil {
			c.Next()
			return
		}

		mobile := peekMobileNumber(c)
		if mobile == "" {
			// Let the handler reject it.
			c.Next()
			return
		}

		keys := []string{cooldownKey(mobile), windowKey(mobile)}
		res, err := otpThrottle.Run(c.Request.Context(), cache, keys,
			limits.Cooldown.Milliseconds(), limits.Window.Milliseconds(), limits.MaxPerWin).Int64Slice()
		if err != nil || len(res) != 2 {
			logger.Warn("otp throttle unavailable", zap.Error(err))
			c.Next()
			return
		}

		switch res[0] {
		case throttleCoolingDown:
			tooMany(c, time.Duration(res[1])*time.Millisecond, "Please wait before requesting another code.")
			return
		case throttleWindowExhausted:
			tooMany(c, time.Duration(res[1])*time.Millisecond, "Too many code requests. Try again later.")
			return
		}

		if res[1] >= 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limits.MaxPerWin))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
		}
		c.Next()
	}
}

func cooldownKey(mobile string) string {
	return fmt.Sprintf("%s:cooldown:%s", otpKeyPrefix, mobile)
}

func windowKey(mobile string) string {
	return fmt.Sprintf("%s:window:%s", otpKeyPrefix, mobile)
}

// peekMobileNumber reads data.mobileNumber and restores the body for the handler.
func peekMobileNumber(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var envelope struct {
		Data struct {
			MobileNumber string `json:"mobileNumber"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Data.MobileNumber
}

func tooMany(c *gin.Context, retryAfter time.Duration, msg string) {
	if retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{
		"status":  "RESOURCE_EXHAUSTED",
		"message": msg,
	}})
}
