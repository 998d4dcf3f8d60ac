package service

import (
	"context"
	"errors"
	"strings"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/model"
	"picvote-server/internal/repository"
	"picvote-server/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username        string
	Password        string
	PasswordConfirm string
	Email           string
	CaptchaID       string
	CaptchaAnswer   string
}

type UserService struct {
	users    repository.UserStore
	images   *ImageService
	settings *SettingsService
	captcha  *CaptchaService
	log      *zap.Logger
}

func NewUserService(
	users repository.UserStore,
	images *ImageService,
	settings *SettingsService,
	captcha *CaptchaService,
	log *zap.Logger,
) *UserService {
	return &UserService{users: users, images: images, settings: settings, captcha: captcha, log: log}
}

// Register 创建普通用户，密码以 bcrypt 哈希保存
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if !s.settings.GetBool(consts.ConfigAllowRegister) {
		return nil, common.NewForbiddenError("当前未开放注册")
	}
	if !s.captcha.Verify(in.CaptchaID, in.CaptchaAnswer) {
		return nil, common.NewValidationError("验证码错误")
	}

	username := strings.TrimSpace(in.Username)
	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(in.Password); !ok {
		return nil, common.NewValidationError(msg)
	}
	if in.PasswordConfirm != "" && in.PasswordConfirm != in.Password {
		return nil, common.NewValidationError("两次输入的密码不一致")
	}

	exists, err := s.users.FieldExists(ctx, consts.UserFieldUsername, username, nil)
	if err != nil {
		return nil, common.NewInternalError("注册失败", err)
	}
	if exists {
		return nil, common.NewConflictError("用户名已存在")
	}

	var email *string
	if e := strings.ToLower(strings.TrimSpace(in.Email)); e != "" {
		exists, err := s.users.FieldExists(ctx, consts.UserFieldEmail, e, nil)
		if err != nil {
			return nil, common.NewInternalError("注册失败", err)
		}
		if exists {
			return nil, common.NewConflictError("邮箱已被使用")
		}
		email = &e
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("注册失败", err)
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
		Status:   consts.UserStatusNormal,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.NewConflictError("用户名已存在")
		}
		return nil, common.NewInternalError("注册失败", err)
	}
	s.log.Info("新用户注册", zap.Uint("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Authenticate 校验用户名密码，被封禁的用户无法登录
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewUnauthorizedError("用户名或密码错误")
		}
		return nil, common.NewInternalError("登录失败", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.NewUnauthorizedError("用户名或密码错误")
	}
	if user.Status == consts.UserStatusBanned {
		return nil, common.NewForbiddenError("账号已被封禁")
	}
	return user, nil
}

// GetByID 不存在时返回 not_found
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		return nil, common.NewInternalError("查询用户失败", err)
	}
	return user, nil
}

// EnsureAdmin 创建管理员；用户已存在时重置密码并提升为管理员。返回是否新建。
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if ok, msg := utils.ValidateUsername(username); !ok {
		return false, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return false, common.NewValidationError(msg)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		err = s.users.UpdateByID(ctx, existing.ID, map[string]interface{}{
			"password": string(hash),
			"admin":    true,
			"status":   consts.UserStatusNormal,
		})
		return false, err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, s.users.Create(ctx, &model.User{
			Username: username,
			Password: string(hash),
			Admin:    true,
			Status:   consts.UserStatusNormal,
		})
	default:
		return false, err
	}
}

func (s *UserService) List(ctx context.Context, keyword string, offset, limit int) ([]model.User, int64, error) {
	users, total, err := s.users.ListUsers(ctx, keyword, offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("获取用户列表失败", err)
	}
	return users, total, nil
}

// SetStatus 封禁或解封用户
func (s *UserService) SetStatus(ctx context.Context, operatorID, userID uint, status int) error {
	if status != consts.UserStatusNormal && status != consts.UserStatusBanned {
		return common.NewValidationError("无效的用户状态")
	}
	if operatorID == userID {
		return common.NewForbiddenError("不能修改自己的状态")
	}
	if err := s.users.UpdateByID(ctx, userID, map[string]interface{}{"status": status}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("用户不存在")
		}
		return common.NewInternalError("更新用户状态失败", err)
	}
	s.log.Info("用户状态已更新", zap.Uint("operator_id", operatorID), zap.Uint("user_id", userID), zap.Int("status", status))
	return nil
}

// Delete 硬删除用户及其全部图片、评论、评分，并清理存储中的文件
func (s *UserService) Delete(ctx context.Context, operatorID, userID uint) error {
	if operatorID == userID {
		return common.NewForbiddenError("不能删除自己")
	}
	files, err := s.users.HardDeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("用户不存在")
		}
		return common.NewInternalError("删除用户失败", err)
	}
	s.images.RemoveFiles(ctx, files...)
	s.log.Info("用户已删除", zap.Uint("operator_id", operatorID), zap.Uint("user_id", userID), zap.Int("files", len(files)))
	return nil
}
