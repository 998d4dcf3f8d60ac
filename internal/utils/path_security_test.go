package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证 SecureJoin 在基路径内拼接时返回基目录下的绝对路径。
func TestSecureJoin_AllowsWithinBase(t *testing.T) {
	base := t.TempDir()

	got, err := SecureJoin(base, "images/2026/01/01/a.png")
	require.NoError(t, err)

	baseAbs, _ := filepath.Abs(base)
	assert.Equal(t, filepath.Join(baseAbs, "images", "2026", "01", "01", "a.png"), got)
}

// 测试内容：验证 SecureJoin 拒绝绝对路径和目录穿越。
func TestSecureJoin_RejectsEscapes(t *testing.T) {
	base := t.TempDir()

	_, err := SecureJoin(base, filepath.Join(base, "x.txt"))
	assert.Error(t, err)

	_, err = SecureJoin(base, filepath.Join("..", "escape.txt"))
	assert.Error(t, err)
}

// 测试内容：验证路径链路上存在符号链接时被拒绝。
func TestSecureJoin_RejectsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink requires privileges on windows")
	}
	base := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(base, "images")))

	_, err := SecureJoin(base, "images/a.png")
	assert.Error(t, err)
}

// 测试内容：验证目标在基路径外时返回错误。
func TestEnsureNoSymlinkBetween_RejectsOutsideBase(t *testing.T) {
	assert.Error(t, EnsureNoSymlinkBetween(t.TempDir(), t.TempDir()))
}

// 测试内容：验证对象 key 的规范化规则。
func TestCleanObjectKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "images/2026/01/01/a.png", want: "images/2026/01/01/a.png"},
		{in: "images//2026/./a.png", want: "images/2026/a.png"},
		{in: `images\a.png`, want: "images/a.png"},
		{in: "", wantErr: true},
		{in: "/etc/passwd", wantErr: true},
		{in: "../a.png", wantErr: true},
		{in: "images/../../a.png", wantErr: true},
		{in: ".", wantErr: true},
	}

	for _, tt := range tests {
		got, err := CleanObjectKey(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
