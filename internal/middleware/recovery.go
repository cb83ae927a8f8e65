package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"strings"

	"dentalclinic/internal/dto"
	"dentalclinic/internal/messages"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery bắt panic trong handler, log kèm stack và trả về 500
// Client đã ngắt kết nối thì chỉ log, không ghi response
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			fields := []zap.Field{
				zap.String("request_id", GetRequestID(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
			}

			if err, ok := rec.(error); ok && isBrokenPipe(err) {
				logger.Warn("client disconnected", fields...)
				c.Abort()
				return
			}

			logger.Error("panic recovered", append(fields, zap.Stack("stack"))...)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.ErrorWithMessage("INTERNAL_ERROR", messages.InternalError))
		}()

		c.Next()
	}
}

func isBrokenPipe(err error) bool {
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if !errors.As(opErr, &sysErr) {
		return false
	}
	msg := strings.ToLower(sysErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
