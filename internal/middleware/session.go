package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"picvote-server/internal/config"
	"picvote-server/internal/consts"
	"picvote-server/internal/model"
	"picvote-server/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	gsessions "github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// LoginURL 未登录访问受保护页面时跳转的地址
	LoginURL = "/accounts/login/"

	sessionUserKey = "user_id"
	ctxUserKey     = "user"

	// staleSessionKey 标记本次请求携带的 cookie 无法解码
	staleSessionKey      = "_stale"
	ctxSessionOptionsKey = "session_options"
)

// tolerantStore 忽略 cookie 解码失败（伪造、过期或密钥已更换），
// 返回 gorilla 已经构造好的空会话，请求按匿名用户继续处理。
type tolerantStore struct {
	cookie.Store
}

func (s tolerantStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	session, err := s.Store.Get(r, name)
	if err != nil && session != nil {
		session.Values = map[interface{}]interface{}{staleSessionKey: true}
		return session, nil
	}
	return session, err
}

func defaultSessionOptions() sessions.Options {
	return sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Sessions 基于签名 cookie 的会话
func Sessions(cfg config.SessionConfig) gin.HandlerFunc {
	opts := defaultSessionOptions()
	opts.MaxAge = cfg.MaxAgeSeconds
	opts.Secure = cfg.Secure

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(opts)
	name := cfg.Name
	if name == "" {
		name = "picvote_session"
	}
	handler := sessions.Sessions(name, tolerantStore{Store: store})
	return func(c *gin.Context) {
		c.Set(ctxSessionOptionsKey, opts)
		handler(c)
	}
}

func sessionOptions(c *gin.Context) sessions.Options {
	if v, ok := c.Get(ctxSessionOptionsKey); ok {
		if opts, ok := v.(sessions.Options); ok {
			return opts
		}
	}
	return defaultSessionOptions()
}

// LoadSessionUser 根据会话中的用户 id 加载当前用户。
// 用户不存在或已被封禁时清空会话，按匿名用户继续处理。
func LoadSessionUser(users *service.UserService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(staleSessionKey) != nil {
			log.Debug("会话 cookie 无法解码，按匿名处理", zap.String("path", c.Request.URL.Path))
			if err := clearSession(session); err != nil {
				log.Warn("清除会话失败", zap.Error(err))
			}
			c.Next()
			return
		}

		uid, ok := session.Get(sessionUserKey).(uint)
		if !ok || uid == 0 {
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), uid)
		if err != nil || user.Status == consts.UserStatusBanned {
			if err != nil {
				log.Debug("会话用户无效，清空会话", zap.Uint("user_id", uid), zap.Error(err))
			}
			clearSession(session)
			c.Next()
			return
		}

		c.Set("id", user.ID)
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// LoginRequired 未登录时 302 跳转到登录页，并通过 next 参数带上原地址
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(loginNext(c.Request)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// loginNext 登录后要回到的地址。表单提交地址不支持 GET，回到其所属页面。
func loginNext(r *http.Request) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return r.URL.RequestURI()
	}
	return strings.TrimSuffix(r.URL.Path, "vote/")
}

// CurrentUser 返回会话中的登录用户
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// SessionLogin 把用户写入会话
func SessionLogin(c *gin.Context, user *model.User) error {
	session := sessions.Default(c)
	session.Clear()
	// 同一请求中可能已经执行过 clearSession，恢复正常的过期时间
	session.Options(sessionOptions(c))
	session.Set(sessionUserKey, user.ID)
	return session.Save()
}

// SessionLogout 清空会话并让浏览器删除 cookie
func SessionLogout(c *gin.Context) error {
	return clearSession(sessions.Default(c))
}

func clearSession(session sessions.Session) error {
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
