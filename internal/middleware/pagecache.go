package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Mu_Blog/internal/cache"

	"github.com/gin-gonic/gin"
)

// PageCacheTTL 首页整页缓存时长，窗口内接受旧数据
const PageCacheTTL = 20 * time.Second

type cachedPage struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// pageKey 完整 URL（含页码参数）加会话 cookie 的摘要，不同会话各缓存各的
func pageKey(c *gin.Context) string {
	cookie, _ := c.Cookie(SessionCookieName)
	sum := sha256.Sum256([]byte(cookie))
	return c.Request.URL.RequestURI() + "|" + hex.EncodeToString(sum[:8])
}

// 非 200 或空响应不进缓存
var errUncacheable = errors.New("response not cacheable")

// PageCache 整页缓存中间件。只缓存 GET 200 的响应，命中期间数据变了也照旧返回。
// 未命中走 GetOrCompute，同一 key 并发未命中只渲染一次。
func PageCache(store cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pageKey(c)
		rendered := false
		blob, err := cache.GetOrCompute(c.Request.Context(), store, key, ttl, func() ([]byte, error) {
			w := &captureWriter{ResponseWriter: c.Writer}
			c.Writer = w
			c.Next()
			rendered = true
			if w.Status() != http.StatusOK || w.buf.Len() == 0 {
				return nil, errUncacheable
			}
			return json.Marshal(cachedPage{
				ContentType: w.Header().Get("Content-Type"),
				Body:        w.buf.Bytes(),
			})
		})
		if rendered || err != nil {
			// 本请求已现场渲染，或响应不该进缓存
			return
		}

		var page cachedPage
		if json.Unmarshal(blob, &page) != nil {
			// 缓存条目坏了：丢掉，这次现场渲染
			_ = store.Invalidate(c.Request.Context(), key)
			c.Next()
			return
		}
		c.Data(http.StatusOK, page.ContentType, page.Body)
		c.Abort()
	}
}
