package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"picvote-server/internal/config"
	"picvote-server/internal/consts"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStore 上传文件的存储后端。relPath 一律使用 "/" 分隔的相对路径。
type FileStore interface {
	Save(ctx context.Context, relPath string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, relPath string) error
	// URL 返回文件对外访问地址
	URL(relPath string) string
	// Driver 返回后端名称（local / s3）
	Driver() string
}

// New 根据 upload.driver 选择存储后端
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (FileStore, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Upload.Driver))
	switch driver {
	case "", "local":
		store, err := NewLocalStore(cfg.Upload.Path, cfg.Upload.URLPrefix)
		if err != nil {
			return nil, err
		}
		log.Info("使用本地文件存储", zap.String("path", cfg.Upload.Path))
		return store, nil
	case "s3":
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		log.Info("使用 S3 对象存储", zap.String("bucket", cfg.S3.Bucket), zap.String("endpoint", cfg.S3.Endpoint))
		return store, nil
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Upload.Driver)
	}
}

// NewImagePath 生成图片存储路径 images/YYYY/MM/DD/<uuid><ext>
func NewImagePath(now time.Time, ext string) string {
	now = now.UTC()
	name := uuid.New().String() + strings.ToLower(ext)
	return path.Join(consts.ImageStoragePrefix, now.Format("2006"), now.Format("01"), now.Format("02"), name)
}

func joinURL(prefix, relPath string) string {
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(relPath, "/")
}
