package service

import (
	"context"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/dto"
	"picvote-server/internal/utils"
)

type AuthService struct {
	users *UserService
	jwt   *utils.JWT
}

func NewAuthService(users *UserService, jwt *utils.JWT) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Login 校验账号并签发 API 令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	token, err := s.jwt.GenerateLoginToken(user.ID, user.Username, user.Admin)
	if err != nil {
		return nil, common.NewInternalError("生成令牌失败", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwt.TTL().Seconds()),
		Username:  user.Username,
		Admin:     user.Admin,
	}, nil
}

// ParseToken 校验令牌并返回载荷
func (s *AuthService) ParseToken(token string) (*utils.LoginClaims, error) {
	claims, err := s.jwt.ParseLoginToken(token)
	if err != nil {
		return nil, common.NewUnauthorizedError("Token 无效或已过期")
	}
	return claims, nil
}

// ActiveUser 确认令牌对应的用户仍然存在且未被封禁，返回最新的管理员标记
func (s *AuthService) ActiveUser(ctx context.Context, userID uint) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if common.HasCode(err, common.ErrorCodeNotFound) {
			return false, common.NewUnauthorizedError("用户不存在")
		}
		return false, err
	}
	if user.Status == consts.UserStatusBanned {
		return false, common.NewForbiddenError("账号已被封禁")
	}
	return user.Admin, nil
}
