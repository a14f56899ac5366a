package middleware

import (
	"lingua_edu_backend/internal/ratelimit"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/logger"
	"lingua_edu_backend/pkg/monitoring"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TutorQuotaMiddleware 按用户限制AI辅导调用。限额是建议性的：
// 限额器内部出任何问题都放行请求（fail-open），绝不因为限流故障拦住用户。
func TutorQuotaMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		allowed := true
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Log.Error("tutor quota check panicked, failing open", zap.Any("panic", r))
					allowed = true
				}
			}()
			allowed = limiter.CheckAndRecord(claims.UserID)
			if remaining := limiter.Remaining(claims.UserID); remaining >= 0 {
				c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}
		}()

		if !allowed {
			monitoring.TutorRequestsBlocked.Inc()
			util.TooManyRequests(c, "AI辅导额度已用完，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
