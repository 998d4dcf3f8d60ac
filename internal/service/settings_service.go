package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/model"
	"picvote-server/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const valueNotFound = "||__NOT_FOUND__||"

var DefaultSettings = []model.Setting{
	{Key: consts.ConfigSiteName, Value: "PicVote", Desc: "网站名称"},
	{Key: consts.ConfigSiteDescription, Value: "Share pictures, rate the best", Desc: "网站描述"},
	{Key: consts.ConfigAllowRegister, Value: "true", Desc: "是否开放注册 (true/false)"},
	{Key: consts.ConfigCaptchaEnabled, Value: "false", Desc: "注册时是否需要图形验证码 (true/false)"},
	{Key: consts.ConfigMaxUploadSize, Value: "10", Desc: "单个文件最大大小 (MB)"},
	{Key: consts.ConfigAllowFileExtensions, Value: ".jpg,.jpeg,.png,.gif,.webp", Desc: "允许上传的文件扩展名"},
	{Key: consts.ConfigCommentMaxLength, Value: "250", Desc: "评论最大长度 (字符)"},
	{Key: consts.ConfigTopImagesLimit, Value: "10", Desc: "首页每个榜单展示的图片数量"},
	{Key: consts.ConfigRateLimitEnabled, Value: "true", Desc: "是否开启接口限流"},
	{Key: consts.ConfigRateLimitAuthRPS, Value: "0.5", Desc: "认证接口每秒请求限制 (RPS)"},
	{Key: consts.ConfigRateLimitAuthBurst, Value: "5", Desc: "认证接口突发请求限制"},
	{Key: consts.ConfigRateLimitUploadRPS, Value: "1.0", Desc: "上传接口每秒请求限制 (RPS)"},
	{Key: consts.ConfigRateLimitUploadBurst, Value: "5", Desc: "上传接口突发请求限制"},
	{Key: consts.ConfigRateLimitFeedbackRPS, Value: "2.0", Desc: "评论/评分接口每秒请求限制 (RPS)"},
	{Key: consts.ConfigRateLimitFeedbackBurst, Value: "10", Desc: "评论/评分接口突发请求限制"},
	{Key: consts.ConfigMaxRequestBodySize, Value: "2", Desc: "非文件上传接口最大请求体限制 (MB)"},
	{Key: consts.ConfigStaticCacheControl, Value: "public, max-age=31536000", Desc: "静态资源缓存设置 (Cache-Control)"},
}

// SettingsService 数据库中的运行时配置，读取结果缓存在内存，更新后清空缓存。
type SettingsService struct {
	store repository.SettingStore
	log   *zap.Logger
	cache sync.Map
}

func NewSettingsService(store repository.SettingStore, log *zap.Logger) *SettingsService {
	return &SettingsService{store: store, log: log}
}

// Initialize 写入缺失的默认配置
func (s *SettingsService) Initialize(ctx context.Context) error {
	if err := s.store.InitializeDefaults(ctx, DefaultSettings); err != nil {
		return err
	}
	s.ClearCache()
	return nil
}

func (s *SettingsService) ClearCache() {
	s.cache.Range(func(key, _ interface{}) bool {
		s.cache.Delete(key)
		return true
	})
}

func (s *SettingsService) GetString(key string) string {
	if val, ok := s.cache.Load(key); ok {
		if strVal, ok := val.(string); ok {
			if strVal == valueNotFound {
				return ""
			}
			return strVal
		}
		s.cache.Delete(key)
	}

	setting, err := s.store.FindByKey(context.Background(), key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("读取配置失败", zap.String("key", key), zap.Error(err))
		}
		// 数据库里没有时回退到默认值（不写回，避免读路径产生写入）
		if def, ok := defaultSetting(key); ok {
			s.cache.Store(key, def.Value)
			return def.Value
		}
		s.cache.Store(key, valueNotFound)
		return ""
	}

	s.cache.Store(key, setting.Value)
	return setting.Value
}

func (s *SettingsService) GetInt(key string) int {
	val, err := strconv.Atoi(s.GetString(key))
	if err != nil {
		return 0
	}
	return val
}

func (s *SettingsService) GetInt64(key string) int64 {
	val, err := strconv.ParseInt(s.GetString(key), 10, 64)
	if err != nil {
		return 0
	}
	return val
}

func (s *SettingsService) GetFloat64(key string) float64 {
	val, err := strconv.ParseFloat(s.GetString(key), 64)
	if err != nil {
		return 0
	}
	return val
}

// GetBool 支持 "1", "t", "true" 等 strconv.ParseBool 能识别的写法
func (s *SettingsService) GetBool(key string) bool {
	val, err := strconv.ParseBool(s.GetString(key))
	if err != nil {
		return false
	}
	return val
}

// List 获取全部系统设置
func (s *SettingsService) List(ctx context.Context) ([]model.Setting, error) {
	settings, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, common.NewInternalError("获取配置失败", err)
	}
	return settings, nil
}

// Update 批量更新系统设置，成功后清理缓存
func (s *SettingsService) Update(ctx context.Context, items []repository.UpdateSettingItem) error {
	for _, item := range items {
		if item.Key == "" {
			return common.NewValidationError("配置键不能为空")
		}
		if _, ok := defaultSetting(item.Key); !ok {
			return common.NewValidationError("未知的配置项: " + item.Key)
		}
	}

	if err := s.store.UpdateSettings(ctx, items); err != nil {
		return common.NewInternalError("更新失败", err)
	}
	s.ClearCache()
	return nil
}

func defaultSetting(key string) (model.Setting, bool) {
	for _, def := range DefaultSettings {
		if def.Key == key {
			return def, true
		}
	}
	return model.Setting{}, false
}
