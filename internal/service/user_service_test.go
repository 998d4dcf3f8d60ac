package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/model"
	"picvote-server/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证注册成功后可以登录，密码以哈希保存。
func TestRegisterAndAuthenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.services.Users.Register(ctx, RegisterInput{Username: "alice", Password: "abc12345", Email: "A@Example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, "abc12345", user.Password)
	require.NotNil(t, user.Email)
	assert.Equal(t, "a@example.com", *user.Email)

	got, err := env.services.Users.Authenticate(ctx, "alice", "abc12345")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.services.Users.Authenticate(ctx, "alice", "wrong123")
	assert.True(t, common.HasCode(err, common.ErrorCodeUnauthorized))
	_, err = env.services.Users.Authenticate(ctx, "nobody", "abc12345")
	assert.True(t, common.HasCode(err, common.ErrorCodeUnauthorized))
}

// 测试内容：验证注册参数校验、用户名冲突、关闭注册与验证码开关。
func TestRegister_Rejections(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	testutils.CreateUser(t, env.db, "taken")

	_, err := env.services.Users.Register(ctx, RegisterInput{Username: "taken", Password: "abc12345"})
	assert.True(t, common.HasCode(err, common.ErrorCodeConflict))

	_, err = env.services.Users.Register(ctx, RegisterInput{Username: "123", Password: "abc12345"})
	assert.True(t, common.HasCode(err, common.ErrorCodeValidation))

	_, err = env.services.Users.Register(ctx, RegisterInput{Username: "bob", Password: "short"})
	assert.True(t, common.HasCode(err, common.ErrorCodeValidation))

	_, err = env.services.Users.Register(ctx, RegisterInput{Username: "bob", Password: "abc12345", PasswordConfirm: "abc12346"})
	assert.True(t, common.HasCode(err, common.ErrorCodeValidation))

	env.setSetting(t, consts.ConfigCaptchaEnabled, "true")
	_, err = env.services.Users.Register(ctx, RegisterInput{Username: "bob", Password: "abc12345"})
	assert.True(t, common.HasCode(err, common.ErrorCodeValidation))
	env.setSetting(t, consts.ConfigCaptchaEnabled, "false")

	env.setSetting(t, consts.ConfigAllowRegister, "false")
	_, err = env.services.Users.Register(ctx, RegisterInput{Username: "bob", Password: "abc12345"})
	assert.True(t, common.HasCode(err, common.ErrorCodeForbidden))
}

// 测试内容：验证被封禁用户无法登录，解封后恢复。
func TestSetStatus_BanBlocksLogin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	admin := testutils.CreateUser(t, env.db, "admin")
	user := testutils.CreateUser(t, env.db, "bob")

	require.NoError(t, env.services.Users.SetStatus(ctx, admin.ID, user.ID, consts.UserStatusBanned))
	_, err := env.services.Users.Authenticate(ctx, "bob", testutils.TestPassword)
	assert.True(t, common.HasCode(err, common.ErrorCodeForbidden))

	require.NoError(t, env.services.Users.SetStatus(ctx, admin.ID, user.ID, consts.UserStatusNormal))
	_, err = env.services.Users.Authenticate(ctx, "bob", testutils.TestPassword)
	assert.NoError(t, err)

	assert.True(t, common.HasCode(env.services.Users.SetStatus(ctx, admin.ID, admin.ID, 2), common.ErrorCodeForbidden))
	assert.True(t, common.HasCode(env.services.Users.SetStatus(ctx, admin.ID, user.ID, 7), common.ErrorCodeValidation))
	assert.True(t, common.HasCode(env.services.Users.SetStatus(ctx, admin.ID, 999, 2), common.ErrorCodeNotFound))
}

// 测试内容：验证删除用户级联删除其图片文件与相关数据。
func TestUserService_DeleteCascades(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	admin := testutils.CreateUser(t, env.db, "admin")
	victim := testutils.CreateUser(t, env.db, "victim")

	img, err := env.services.Images.Upload(ctx, victim.ID, "mine", testutils.FileHeader(t, "a.png", testutils.PNGBytes()))
	require.NoError(t, err)
	_, err = env.services.Votes.SubmitVote(ctx, admin.ID, img.ID, 5)
	require.NoError(t, err)

	require.NoError(t, env.services.Users.Delete(ctx, admin.ID, victim.ID))

	_, err = os.Stat(filepath.Join(env.mediaRoot, filepath.FromSlash(img.File)))
	assert.True(t, os.IsNotExist(err))
	var votes int64
	require.NoError(t, env.db.Model(&model.Vote{}).Count(&votes).Error)
	assert.Zero(t, votes)

	assert.True(t, common.HasCode(env.services.Users.Delete(ctx, admin.ID, victim.ID), common.ErrorCodeNotFound))
	assert.True(t, common.HasCode(env.services.Users.Delete(ctx, admin.ID, admin.ID), common.ErrorCodeForbidden))
}

// 测试内容：验证 EnsureAdmin 新建管理员，对已有用户则提升为管理员并重置密码。
func TestEnsureAdmin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.services.Users.EnsureAdmin(ctx, "root_admin", "admin1234")
	require.NoError(t, err)
	assert.True(t, created)

	testutils.CreateUser(t, env.db, "promote")
	created, err = env.services.Users.EnsureAdmin(ctx, "promote", "newpass123")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := env.services.Users.Authenticate(ctx, "promote", "newpass123")
	require.NoError(t, err)
	assert.True(t, u.Admin)

	_, err = env.services.Users.EnsureAdmin(ctx, "x-y", "admin1234")
	assert.Error(t, err)
}

// 测试内容：验证用户列表分页。
func TestUserService_List(t *testing.T) {
	env := setupTestEnv(t)
	for _, name := range []string{"a1", "a2", "b1"} {
		testutils.CreateUser(t, env.db, name)
	}
	users, total, err := env.services.Users.List(context.Background(), "a", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)
}
