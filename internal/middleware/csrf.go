package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"dentalclinic/internal/dto"

	"github.com/gin-gonic/gin"
)

// ===========================================================================
// CSRF Middleware
// Double Submit Cookie: token trong cookie (JS đọc được) phải khớp với header
// Chỉ áp dụng khi client xác thực bằng cookie
// ===========================================================================

const (
	CSRFCookieName  = "csrf_token"
	CSRFHeaderName  = "X-CSRF-Token"
	CSRFTokenLength = 32
)

// GenerateCSRFToken tạo random CSRF token
func GenerateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// SetCSRFCookie set CSRF token cookie, non-httpOnly để FE đọc và gửi lại trong header
func SetCSRFCookie(c *gin.Context, token string, secure bool) {
	c.SetCookie(CSRFCookieName, token, 86400*7, "/", "", secure, false)
}

// CSRFMiddleware kiểm tra CSRF token cho các request thay đổi dữ liệu
// Bỏ qua: safe methods, các path trong exemptPaths, request không dùng cookie access_token
func CSRFMiddleware(exemptPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, exempt := range exemptPaths {
			if strings.HasPrefix(path, exempt) {
				c.Next()
				return
			}
		}

		// client dùng Bearer token không bị CSRF
		if cookie, err := c.Cookie(AccessTokenCookie); err != nil || cookie == "" {
			c.Next()
			return
		}

		cookieToken, err := c.Cookie(CSRFCookieName)
		if err != nil || cookieToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Error("CSRF_MISSING", "Thiếu CSRF token"))
			return
		}

		headerToken := c.GetHeader(CSRFHeaderName)
		if headerToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Error("CSRF_MISSING", "Thiếu header "+CSRFHeaderName))
			return
		}

		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Error("CSRF_INVALID", "CSRF token không khớp"))
			return
		}

		c.Next()
	}
}
