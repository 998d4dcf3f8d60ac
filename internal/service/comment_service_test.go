package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证同一用户可以发表多条评论，列表按时间正序并带评论者。
func TestCommentService_AddAndList(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := testutils.CreateUser(t, env.db, "talker")
	img := testutils.CreateImage(t, env.db, user, "img", time.Time{})

	first, err := env.services.Comments.Add(ctx, user.ID, img.ID, "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, "nice", first.Text)
	_, err = env.services.Comments.Add(ctx, user.ID, img.ID, "again")
	require.NoError(t, err)

	list, err := env.services.Comments.ListForImage(ctx, img.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "nice", list[0].Text)
	assert.Equal(t, "again", list[1].Text)
	assert.Equal(t, "talker", list[0].User.Username)
}

// 测试内容：验证空评论、超长评论被拒绝，长度上限来自配置。
func TestCommentService_Validation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := testutils.CreateUser(t, env.db, "talker")
	img := testutils.CreateImage(t, env.db, user, "img", time.Time{})

	_, err := env.services.Comments.Add(ctx, user.ID, img.ID, "   ")
	assert.True(t, common.HasCode(err, common.ErrorCodeValidation))

	_, err = env.services.Comments.Add(ctx, user.ID, img.ID, strings.Repeat("好", 251))
	assert.True(t, common.HasCode(err, common.ErrorCodeValidation))

	_, err = env.services.Comments.Add(ctx, user.ID, img.ID, strings.Repeat("好", 250))
	assert.NoError(t, err)

	env.setSetting(t, consts.ConfigCommentMaxLength, "5")
	_, err = env.services.Comments.Add(ctx, user.ID, img.ID, "123456")
	assert.True(t, common.HasCode(err, common.ErrorCodeValidation))

	_, err = env.services.Comments.Add(ctx, user.ID, img.ID+99, "hi")
	assert.True(t, common.HasCode(err, common.ErrorCodeNotFound))
}

// 测试内容：验证删除评论与删除不存在的评论。
func TestCommentService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := testutils.CreateUser(t, env.db, "talker")
	img := testutils.CreateImage(t, env.db, user, "img", time.Time{})

	c, err := env.services.Comments.Add(ctx, user.ID, img.ID, "bye")
	require.NoError(t, err)
	require.NoError(t, env.services.Comments.Delete(ctx, c.ID))
	assert.True(t, common.HasCode(env.services.Comments.Delete(ctx, c.ID), common.ErrorCodeNotFound))
}
