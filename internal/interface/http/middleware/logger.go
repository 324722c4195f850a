package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hairun/fleetops/pkg/tracing"
)

// RequestLogger 请求日志中间件
// 设计说明:
// 1. 为每个请求生成唯一的请求ID,写入响应Header便于排查
// 2. 记录方法、路径、状态码、耗时、客户端IP
// 3. 不记录请求体和Token等敏感信息
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid := GetUserID(c); uid > 0 {
			fields = append(fields, zap.Uint("user_id", uid))
		}
		// 追踪开启时把TraceID写进日志,按ID能从日志跳到完整链路
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			logger.Error("请求处理异常", fields...)
			return
		}

		logger.Info("请求完成", fields...)
	}
}
