package db

import (
	"path/filepath"
	"testing"

	"picvote-server/internal/config"
	"picvote-server/internal/logger"
	"picvote-server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证使用 sqlite 临时文件初始化数据库并创建全部核心表。
func TestOpen_SQLiteTempFile(t *testing.T) {
	tmp := t.TempDir()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type:     "sqlite",
			Filename: filepath.Join(tmp, "db", "test.db"),
		},
	}

	gdb, err := Open(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, m := range model.AllModels() {
		assert.True(t, gdb.Migrator().HasTable(m), "缺少表: %T", m)
	}
	assert.True(t, gdb.Migrator().HasIndex(&model.Vote{}, "idx_votes_user_image"))
}

// 测试内容：验证未知的数据库类型返回错误。
func TestDialector_UnknownType(t *testing.T) {
	_, err := Dialector(config.DatabaseConfig{Type: "oracle"})
	require.Error(t, err)
}
