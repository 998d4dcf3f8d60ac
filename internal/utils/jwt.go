package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const loginTokenType = "login"

// LoginClaims API 登录令牌载荷
type LoginClaims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// JWT 负责签发和校验 HS256 登录令牌
type JWT struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewJWT(secret string, ttl time.Duration, issuer string) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, issuer: issuer}
}

func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) GenerateLoginToken(id uint, username string, admin bool) (string, error) {
	now := time.Now()
	claims := LoginClaims{
		ID:       id,
		Username: username,
		Admin:    admin,
		Type:     loginTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWT) ParseLoginToken(tokenString string) (*LoginClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LoginClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithIssuer(j.issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*LoginClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != loginTokenType {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}
