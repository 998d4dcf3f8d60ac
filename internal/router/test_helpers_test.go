package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"picvote-server/internal/cache"
	"picvote-server/internal/config"
	"picvote-server/internal/handler"
	"picvote-server/internal/handler/api"
	"picvote-server/internal/metrics"
	"picvote-server/internal/middleware"
	"picvote-server/internal/repository"
	"picvote-server/internal/service"
	"picvote-server/internal/storage"
	"picvote-server/internal/testutils"
	"picvote-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testApp struct {
	engine    *gin.Engine
	db        *gorm.DB
	services  *service.Services
	jwt       *utils.JWT
	mediaRoot string
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterBindingRules(); err != nil {
		t.Fatalf("register binding rules: %v", err)
	}

	gdb := testutils.SetupDB(t)
	log := zap.NewNop()
	cfg := &config.Config{
		Session: config.SessionConfig{Secret: "router-test-secret", Name: "picvote_session", MaxAgeSeconds: 3600},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewImageRepository(gdb),
		repository.NewCommentRepository(gdb),
		repository.NewVoteRepository(gdb),
		repository.NewSettingRepository(gdb),
	)
	mediaRoot := filepath.Join(t.TempDir(), "media")
	files, err := storage.NewLocalStore(mediaRoot, "/media/")
	if err != nil {
		t.Fatalf("init storage: %v", err)
	}

	m := metrics.New()
	settings := service.NewSettingsService(repos.Setting, log)
	if err := settings.Initialize(context.Background()); err != nil {
		t.Fatalf("init settings: %v", err)
	}
	images := service.NewImageService(repos.Image, files, settings, m, log)
	votes := service.NewVoteService(repos.Vote, images, m, log)
	comments := service.NewCommentService(repos.Comment, images, settings, m, log)
	captcha := service.NewCaptchaService(utils.NewCaptcha(), settings)
	users := service.NewUserService(repos.User, images, settings, captcha, log)
	jwt := utils.NewJWT("router-test-secret", time.Hour, "picvote-test")
	auth := service.NewAuthService(users, jwt)
	services := service.NewServices(settings, images, votes, comments, users, auth, captcha, service.NewStatService(repos))

	keys := cache.NewKeyer(config.RedisConfig{})
	statuses := middleware.NewStatusCache(nil, keys)
	rt := NewRouter(
		cfg,
		services,
		handler.NewHandler(services, log),
		api.NewHandler(services, statuses, log),
		files,
		m,
		middleware.NewRateLimiter(settings, nil, keys, log),
		statuses,
		log,
	)

	r := gin.New()
	if err := rt.Init(r); err != nil {
		t.Fatalf("init router: %v", err)
	}
	return &testApp{engine: r, db: gdb, services: services, jwt: jwt, mediaRoot: mediaRoot}
}

func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, cookies...)
}

// login 通过登录页登录并返回会话 cookie
func (a *testApp) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	w := a.postForm("/accounts/login/", url.Values{
		"username": {username},
		"password": {testutils.TestPassword},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("login %s: expected 302, got %d: %s", username, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "picvote_session" {
			return c
		}
	}
	t.Fatalf("login %s: no session cookie", username)
	return nil
}

func (a *testApp) bearer(t *testing.T, userID uint, username string, admin bool) string {
	t.Helper()
	token, err := a.jwt.GenerateLoginToken(userID, username, admin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
