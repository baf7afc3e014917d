package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/foodiehub/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
			"path":    path,
		}
		if sess, ok := CurrentSession(c); ok {
			fields["session"] = sess.ID
		}

		if c.Writer.Status() >= 500 {
			utils.ErrorLogger.WithFields(fields).Error(c.Errors.String())
			return
		}
		utils.InfoLogger.WithFields(fields).Info("request")
	}
}
