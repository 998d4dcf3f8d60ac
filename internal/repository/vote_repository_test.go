package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"picvote-server/internal/model"
	"picvote-server/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// errorRecorder 记录 gorm 以 Error 级别输出的 SQL 错误
type errorRecorder struct {
	level gormlogger.LogLevel
	mu    *sync.Mutex
	errs  *[]error
}

func newErrorRecorder() errorRecorder {
	return errorRecorder{level: gormlogger.Error, mu: &sync.Mutex{}, errs: &[]error{}}
}

func (l errorRecorder) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	l.level = level
	return l
}

func (l errorRecorder) Info(context.Context, string, ...interface{})  {}
func (l errorRecorder) Warn(context.Context, string, ...interface{})  {}
func (l errorRecorder) Error(context.Context, string, ...interface{}) {}

func (l errorRecorder) Trace(_ context.Context, _ time.Time, _ func() (string, int64), err error) {
	if err == nil || l.level < gormlogger.Error {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.errs = append(*l.errs, err)
}

func (l errorRecorder) recorded() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), *l.errs...)
}

// 测试内容：验证重复评分被拒绝时不输出 SQL 错误日志，其他查询的错误日志不受影响。
func TestVoteRepository_DuplicateNotLogged(t *testing.T) {
	gdb := testutils.SetupDB(t)
	recorder := newErrorRecorder()
	logged := gdb.Session(&gorm.Session{Logger: recorder})
	repo := NewVoteRepository(logged)
	ctx := context.Background()

	user := testutils.CreateUser(t, gdb, "voter")
	img := testutils.CreateImage(t, gdb, user, "img", time.Time{})

	require.NoError(t, repo.Create(ctx, &model.Vote{Rate: 4, UserID: user.ID, ImageID: img.ID}))
	err := repo.Create(ctx, &model.Vote{Rate: 1, UserID: user.ID, ImageID: img.ID})
	require.ErrorIs(t, err, ErrDuplicateVote)
	assert.Empty(t, recorder.recorded())

	// 同一 logger 下其他语句的错误仍会记录
	_ = logged.Exec("SELECT * FROM no_such_table").Error
	assert.Len(t, recorder.recorded(), 1)
}

// 测试内容：验证同一用户对同一图片的第二次评分被唯一索引拒绝，原评分不变。
func TestVoteRepository_DuplicateRejected(t *testing.T) {
	gdb := testutils.SetupDB(t)
	repo := NewVoteRepository(gdb)
	ctx := context.Background()

	user := testutils.CreateUser(t, gdb, "voter")
	img := testutils.CreateImage(t, gdb, user, "img", time.Time{})

	require.NoError(t, repo.Create(ctx, &model.Vote{Rate: 4, UserID: user.ID, ImageID: img.ID}))
	err := repo.Create(ctx, &model.Vote{Rate: 1, UserID: user.ID, ImageID: img.ID})
	assert.ErrorIs(t, err, ErrDuplicateVote)

	count, err := repo.CountByImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	vote, err := repo.Find(ctx, user.ID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, vote.Rate)

	exists, err := repo.Exists(ctx, user.ID, img.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

// 测试内容：验证数据库 CHECK 约束拒绝超出 1..5 的评分。
func TestVoteRepository_CheckConstraint(t *testing.T) {
	gdb := testutils.SetupDB(t)
	repo := NewVoteRepository(gdb)
	ctx := context.Background()

	user := testutils.CreateUser(t, gdb, "voter")
	img := testutils.CreateImage(t, gdb, user, "img", time.Time{})

	assert.Error(t, repo.Create(ctx, &model.Vote{Rate: 6, UserID: user.ID, ImageID: img.ID}))
	assert.Error(t, repo.Create(ctx, &model.Vote{Rate: 0, UserID: user.ID, ImageID: img.ID}))

	exists, err := repo.Exists(ctx, user.ID, img.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

// 测试内容：验证不同用户可以对同一图片各评一次。
func TestVoteRepository_DifferentUsers(t *testing.T) {
	gdb := testutils.SetupDB(t)
	repo := NewVoteRepository(gdb)
	ctx := context.Background()

	a := testutils.CreateUser(t, gdb, "a")
	b := testutils.CreateUser(t, gdb, "b")
	img := testutils.CreateImage(t, gdb, a, "img", time.Time{})

	require.NoError(t, repo.Create(ctx, &model.Vote{Rate: 2, UserID: a.ID, ImageID: img.ID}))
	require.NoError(t, repo.Create(ctx, &model.Vote{Rate: 5, UserID: b.ID, ImageID: img.ID}))

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
