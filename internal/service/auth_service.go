package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/ninetytwo-orders/internal/cache"
	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// StaticSessionMarker static 会话模式下的 Cookie 值
const StaticSessionMarker = "1"

const adminRole = "admin"

// AdminSession 登录成功后签发的会话
type AdminSession struct {
	Value     string
	MaxAge    int
	ExpiresAt time.Time
}

// SessionClaims 签名会话声明
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService 管理员认证服务（单一共享凭据）
type AuthService struct {
	admin config.AdminConfig
	jwt   config.JWTConfig
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config) *AuthService {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &AuthService{admin: cfg.Admin, jwt: cfg.JWT}
}

// CookieName 会话 Cookie 名称
func (s *AuthService) CookieName() string {
	if name := strings.TrimSpace(s.admin.SessionCookie); name != "" {
		return name
	}
	return "nt_admin"
}

// MaxAgeSeconds 会话有效期（秒）
func (s *AuthService) MaxAgeSeconds() int {
	if s.admin.SessionMaxAgeSeconds > 0 {
		return s.admin.SessionMaxAgeSeconds
	}
	return 86400
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyCredentials 校验登录名与密码
func (s *AuthService) VerifyCredentials(login, password string) error {
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.admin.Login)) == 1
	var passwordOK bool
	if hash := strings.TrimSpace(s.admin.PasswordHash); hash != "" {
		passwordOK = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	}
	if !loginOK || !passwordOK || s.admin.Login == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// Login 校验凭据并签发会话
func (s *AuthService) Login(login, password string) (*AdminSession, error) {
	if err := s.VerifyCredentials(login, password); err != nil {
		return nil, err
	}
	maxAge := s.MaxAgeSeconds()
	expiresAt := time.Now().Add(time.Duration(maxAge) * time.Second)
	if s.admin.SessionMode != config.SessionModeSigned {
		return &AdminSession{Value: StaticSessionMarker, MaxAge: maxAge, ExpiresAt: expiresAt}, nil
	}

	claims := SessionClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.admin.Login,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwt.SecretKey))
	if err != nil {
		return nil, err
	}
	return &AdminSession{Value: signed, MaxAge: maxAge, ExpiresAt: expiresAt}, nil
}

// ParseSession 解析签名会话
func (s *AuthService) ParseSession(value string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(value, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwt.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Role != adminRole {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// VerifySession 校验 Cookie 值
func (s *AuthService) VerifySession(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrInvalidSession
	}
	if s.admin.SessionMode != config.SessionModeSigned {
		if value != StaticSessionMarker {
			return ErrInvalidSession
		}
		return nil
	}
	claims, err := s.ParseSession(value)
	if err != nil {
		return err
	}
	revoked, err := cache.IsSessionRevoked(context.Background(), claims.ID)
	if err != nil {
		logger.Warnw("session_revocation_check_failed", "error", err)
	}
	if revoked {
		return ErrInvalidSession
	}
	return nil
}

// Logout 注销签名会话，static 模式下仅依赖清除 Cookie
func (s *AuthService) Logout(value string) {
	if s.admin.SessionMode != config.SessionModeSigned || strings.TrimSpace(value) == "" {
		return
	}
	claims, err := s.ParseSession(value)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := cache.RevokeSession(context.Background(), claims.ID, ttl); err != nil {
		logger.Warnw("session_revoke_failed", "error", err)
	}
}
