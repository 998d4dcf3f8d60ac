package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"picvote-server/internal/utils"
)

// LocalStore 把文件保存在本地目录，由静态路由对外提供访问
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if root == "" {
		root = "uploads/media"
	}
	if err := utils.EnsureNoSymlinkBetween(filepath.Dir(root), root); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Driver() string {
	return "local"
}

// Root 本地存储根目录
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

func (s *LocalStore) Save(ctx context.Context, relPath string, body io.Reader, size int64, contentType string) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// O_EXCL 防止覆盖已有文件
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(fullPath)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	return nil
}

// Delete 文件不存在时视为成功
func (s *LocalStore) Delete(_ context.Context, relPath string) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(relPath string) string {
	return joinURL(s.urlPrefix, relPath)
}

func (s *LocalStore) resolve(relPath string) (string, error) {
	key, err := utils.CleanObjectKey(relPath)
	if err != nil {
		return "", err
	}
	return utils.SecureJoin(s.root, key)
}
