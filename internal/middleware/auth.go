package middleware

import (
	"net/http"
	"net/url"

	"Mu_Blog/internal/pkg"
	"Mu_Blog/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	SessionCookieName  = "session"
	LoginPath          = "/auth/login/"
)

// sessionClaims 校验 cookie 里的会话 token：签名有效且和 redis 里的一致才算登录。
// 校验通过顺手给 redis 里的 token 续期。
func sessionClaims(c *gin.Context) (*pkg.Claims, bool) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil, false
	}

	claims, err := pkg.ParseSession(token)
	if err != nil {
		return nil, false
	}

	sessions := &redis.SessionRepository{}
	origin, err := sessions.GetToken(claims.UserID)
	if err != nil || origin != token {
		return nil, false
	}

	_ = sessions.ExtendToken(claims.UserID)
	return claims, true
}

// AuthRequired 未登录不报错，302 去登录页并带上回跳地址
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, LoginPath+"?next="+next)
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// MaybeAuth 公开页面用：登录了就注入身份，没登录照样放行
func MaybeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := sessionClaims(c); ok {
			c.Set(ContextUserIDKey, claims.UserID)
			c.Set(ContextUsernameKey, claims.Username)
		}
		c.Next()
	}
}

// UserID 从上下文取当前用户，0 表示未登录
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

func Username(c *gin.Context) string {
	if v, ok := c.Get(ContextUsernameKey); ok {
		if name, ok2 := v.(string); ok2 {
			return name
		}
	}
	return ""
}
