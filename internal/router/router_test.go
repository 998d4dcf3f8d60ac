package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"picvote-server/internal/model"
	"picvote-server/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：页面、API 与管理接口路由均已注册。
func TestInit_RegistersCoreRoutes(t *testing.T) {
	app := setupTestApp(t)

	wants := []string{
		"GET /",
		"GET /images/",
		"GET /images/:id/",
		"POST /images/:id/",
		"POST /images/:id/vote/",
		"GET /my_images/",
		"POST /my_images/",
		"GET /accounts/login/",
		"POST /accounts/login/",
		"GET /accounts/register/",
		"POST /accounts/register/",
		"POST /accounts/logout/",
		"GET /accounts/profile/",
		"GET /api/ping",
		"POST /api/login",
		"GET /api/images",
		"GET /api/images/top",
		"GET /api/images/:id",
		"POST /api/images/:id/vote",
		"POST /api/images/:id/comments",
		"GET /api/user/images",
		"POST /api/user/images",
		"GET /api/admin/stats",
		"PATCH /api/admin/settings",
		"GET /metrics",
	}

	have := make(map[string]bool)
	for _, rt := range app.engine.Routes() {
		have[rt.Method+" "+rt.Path] = true
	}
	for _, w := range wants {
		assert.True(t, have[w], "缺少路由: %s", w)
	}
}

// 测试内容：匿名用户评分被重定向到登录页，且不写入任何评分。
func TestVote_AnonymousRedirectsToLogin(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	img := testutils.CreateImage(t, app.db, owner, "sunset", time.Time{})

	w := app.postForm("/images/"+itoa(img.ID)+"/vote/", url.Values{"rate": {"5"}})
	assert.Equal(t, http.StatusFound, w.Code)
	// 登录后回到图片详情页，评分地址只接受 POST
	assert.Equal(t, "/accounts/login/?next=%2Fimages%2F"+itoa(img.ID)+"%2F", w.Header().Get("Location"))

	var count int64
	require.NoError(t, app.db.Model(&model.Vote{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 测试内容：匿名用户提交评论被重定向到登录页，next 指向图片详情页且不写入评论。
func TestAddComment_AnonymousRedirectsToImage(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	img := testutils.CreateImage(t, app.db, owner, "sunset", time.Time{})

	w := app.postForm("/images/"+itoa(img.ID)+"/", url.Values{"comment_text": {"nice"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/accounts/login/?next=%2Fimages%2F"+itoa(img.ID)+"%2F", w.Header().Get("Location"))

	var count int64
	require.NoError(t, app.db.Model(&model.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 测试内容：无法解码的会话 cookie（伪造或密钥更换后遗留）不影响公开页面，按匿名处理并让浏览器删除该 cookie。
func TestPublicPages_UndecodableSessionCookie(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	img := testutils.CreateImage(t, app.db, owner, "sunset", time.Time{})

	forged := &http.Cookie{Name: "picvote_session", Value: "forged"}
	for _, path := range []string{"/", "/images/", "/images/" + itoa(img.ID) + "/"} {
		w := app.get(path, forged)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "/accounts/login/", path)

		var expired bool
		for _, c := range w.Result().Cookies() {
			if c.Name == "picvote_session" && c.MaxAge < 0 {
				expired = true
			}
		}
		assert.True(t, expired, path)
	}
}

// 测试内容：携带失效 cookie 登录时，最终下发的会话 cookie 有效，可访问受保护页面。
func TestLogin_WithUndecodableSessionCookie(t *testing.T) {
	app := setupTestApp(t)
	testutils.CreateUser(t, app.db, "carol")

	w := app.postForm("/accounts/login/", url.Values{
		"username": {"carol"},
		"password": {testutils.TestPassword},
	}, &http.Cookie{Name: "picvote_session", Value: "forged"})
	require.Equal(t, http.StatusFound, w.Code)

	// 同名 cookie 以最后一个 Set-Cookie 为准
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "picvote_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.MaxAge >= 0)

	w = app.get("/my_images/", session)
	assert.Equal(t, http.StatusOK, w.Code)
}

// 测试内容：/my_images/ 未登录时跳转登录页，登录后正常展示。
func TestMyImages_RequiresLogin(t *testing.T) {
	app := setupTestApp(t)
	testutils.CreateUser(t, app.db, "alice")

	w := app.get("/my_images/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/accounts/login/?next=%2Fmy_images%2F", w.Header().Get("Location"))

	cookie := app.login(t, "alice")
	w = app.get("/my_images/", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `enctype="multipart/form-data"`)
}

// 测试内容：登录成功后跳转到 next 指定的站内地址，站外地址回退到首页。
func TestLogin_RedirectsToNext(t *testing.T) {
	app := setupTestApp(t)
	testutils.CreateUser(t, app.db, "bob")

	w := app.postForm("/accounts/login/", url.Values{
		"username": {"bob"},
		"password": {testutils.TestPassword},
		"next":     {"/my_images/"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/my_images/", w.Header().Get("Location"))

	w = app.postForm("/accounts/login/", url.Values{
		"username": {"bob"},
		"password": {testutils.TestPassword},
		"next":     {"//evil.example.com/"},
	})
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.postForm("/accounts/login/", url.Values{
		"username": {"bob"},
		"password": {"wrong-password1"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "用户名或密码错误")
}

// 测试内容：首页两个榜单分别使用一天和一周的窗口。
func TestIndex_DayAndWeekLists(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	voter := testutils.CreateUser(t, app.db, "voter")
	fresh := testutils.CreateImage(t, app.db, owner, "fresh-upload", time.Time{})
	old := testutils.CreateImage(t, app.db, owner, "three-days-old", time.Now().Add(-72*time.Hour))
	testutils.CreateVote(t, app.db, voter, fresh, 4)
	testutils.CreateVote(t, app.db, voter, old, 5)

	w := app.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	idx := strings.Index(body, "7 天内评分最高")
	require.Greater(t, idx, 0)
	dayPart, weekPart := body[:idx], body[idx:]

	assert.Contains(t, dayPart, "fresh-upload")
	assert.NotContains(t, dayPart, "three-days-old")
	assert.Contains(t, weekPart, "fresh-upload")
	assert.Contains(t, weekPart, "three-days-old")
	// 周榜按平均分排序，5 分的旧图排在前面
	assert.Less(t, strings.Index(weekPart, "three-days-old"), strings.Index(weekPart, "fresh-upload"))
}

// 测试内容：图片详情页展示平均分；不存在的图片返回 404。
func TestImageDetail(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	voter := testutils.CreateUser(t, app.db, "voter")
	img := testutils.CreateImage(t, app.db, owner, "mountain", time.Time{})

	w := app.get("/images/" + itoa(img.ID) + "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<strong id="avg-rate">-</strong>`)

	testutils.CreateVote(t, app.db, voter, img, 3)
	testutils.CreateVote(t, app.db, owner, img, 4)
	w = app.get("/images/" + itoa(img.ID) + "/")
	assert.Contains(t, w.Body.String(), `<strong id="avg-rate">3.50</strong>`)

	assert.Equal(t, http.StatusNotFound, app.get("/images/9999/").Code)
	assert.Equal(t, http.StatusNotFound, app.get("/images/abc/").Code)
}

// 测试内容：空白评论重新渲染详情页并提示错误，不写入数据；合法评论写入后跳转。
func TestComment_InvalidRerendersAndValidRedirects(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	img := testutils.CreateImage(t, app.db, owner, "lake", time.Time{})
	cookie := app.login(t, "owner")
	path := "/images/" + itoa(img.ID) + "/"

	w := app.postForm(path, url.Values{"comment_text": {"   "}}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="error"`)

	var count int64
	require.NoError(t, app.db.Model(&model.Comment{}).Count(&count).Error)
	assert.Zero(t, count)

	w = app.postForm(path, url.Values{"comment_text": {"nice shot"}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, path, w.Header().Get("Location"))

	w = app.get(path, cookie)
	assert.Contains(t, w.Body.String(), "nice shot")
}

// 测试内容：同一用户重复评分静默跳转，只保留第一次的评分。
func TestVote_DuplicateIsSilentlyIgnored(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	testutils.CreateUser(t, app.db, "voter")
	img := testutils.CreateImage(t, app.db, owner, "forest", time.Time{})
	cookie := app.login(t, "voter")
	path := "/images/" + itoa(img.ID) + "/vote/"

	w := app.postForm(path, url.Values{"rate": {"4"}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/images/"+itoa(img.ID)+"/", w.Header().Get("Location"))

	w = app.postForm(path, url.Values{"rate": {"1"}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	var votes []model.Vote
	require.NoError(t, app.db.Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, 4, votes[0].Rate)

	w = app.get("/images/"+itoa(img.ID)+"/", cookie)
	assert.Contains(t, w.Body.String(), "你已经为这张图片评过分")
}

// 测试内容：越界或非整数评分不写入数据；图片不存在返回 404。
func TestVote_InvalidRateAndMissingImage(t *testing.T) {
	app := setupTestApp(t)
	owner := testutils.CreateUser(t, app.db, "owner")
	img := testutils.CreateImage(t, app.db, owner, "river", time.Time{})
	cookie := app.login(t, "owner")
	path := "/images/" + itoa(img.ID) + "/vote/"

	for _, rate := range []string{"0", "6", "abc", ""} {
		w := app.postForm(path, url.Values{"rate": {rate}}, cookie)
		assert.Equal(t, http.StatusFound, w.Code, "rate=%q", rate)
	}
	var count int64
	require.NoError(t, app.db.Model(&model.Vote{}).Count(&count).Error)
	assert.Zero(t, count)

	w := app.postForm("/images/9999/vote/", url.Values{"rate": {"3"}}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// 测试内容：登录用户通过页面上传图片，文件写入存储且记录归属当前用户。
func TestUpload_ViaMyImages(t *testing.T) {
	app := setupTestApp(t)
	user := testutils.CreateUser(t, app.db, "uploader")
	cookie := app.login(t, "uploader")

	body, contentType := testutils.MultipartBody(t, map[string]string{"description": "my cat"}, "imgfile", "cat.png", testutils.PNGBytes())
	req := httptest.NewRequest(http.MethodPost, "/my_images/", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", contentType)
	w := app.do(req, cookie)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/my_images/", w.Header().Get("Location"))

	var images []model.Image
	require.NoError(t, app.db.Find(&images).Error)
	require.Len(t, images, 1)
	assert.Equal(t, user.ID, images[0].UserID)
	assert.Equal(t, "my cat", images[0].Description)
	assert.True(t, strings.HasPrefix(images[0].File, "images/"))

	_, err := os.Stat(filepath.Join(app.mediaRoot, filepath.FromSlash(images[0].File)))
	assert.NoError(t, err)

	media := app.get("/media/" + images[0].File)
	assert.Equal(t, http.StatusOK, media.Code)
	assert.Equal(t, "public, max-age=31536000", media.Header().Get("Cache-Control"))
}

// 测试内容：缺少描述的上传重新渲染表单，不写入记录。
func TestUpload_MissingDescriptionRerenders(t *testing.T) {
	app := setupTestApp(t)
	testutils.CreateUser(t, app.db, "uploader")
	cookie := app.login(t, "uploader")

	body, contentType := testutils.MultipartBody(t, map[string]string{"description": "  "}, "imgfile", "cat.png", testutils.PNGBytes())
	req := httptest.NewRequest(http.MethodPost, "/my_images/", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", contentType)
	w := app.do(req, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="error"`)

	var count int64
	require.NoError(t, app.db.Model(&model.Image{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 测试内容：注册成功后自动登录，注销后 /my_images/ 重新要求登录。
func TestRegisterAndLogout(t *testing.T) {
	app := setupTestApp(t)

	w := app.postForm("/accounts/register/", url.Values{
		"username":         {"newbie"},
		"password":         {"secret1234"},
		"password_confirm": {"secret1234"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "picvote_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, http.StatusOK, app.get("/my_images/", cookie).Code)

	w = app.postForm("/accounts/logout/", url.Values{}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "picvote_session" {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Equal(t, http.StatusFound, app.get("/my_images/", cleared).Code)

	assert.Equal(t, "/", app.get("/accounts/profile/").Header().Get("Location"))
}

// 测试内容：未知页面返回 404 页面，指标接口可访问。
func TestNoRouteAndMetrics(t *testing.T) {
	app := setupTestApp(t)

	w := app.get("/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "不存在")

	w = app.get("/api/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "API not found")

	w = app.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "picvote_http_request_duration_seconds")
}
