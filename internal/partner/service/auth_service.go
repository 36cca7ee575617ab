package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/config"
	"github.com/KenTheWhale/unisew-partner/internal/middleware"
	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// refreshKeyPrefix 刷新令牌的redis键前缀
const refreshKeyPrefix = "unisew:refresh:"

// AuthService 认证服务
type AuthService struct {
	partnerRepo *repository.PartnerRepository
	rdb         *redis.Client
	cfg         *config.Config
}

// NewAuthService 创建认证服务
func NewAuthService(partnerRepo *repository.PartnerRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{partnerRepo: partnerRepo, rdb: rdb, cfg: cfg}
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // 秒
}

// Login 邮箱密码登录。未激活账号拒绝登录。
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.Partner, *TokenPair, error) {
	partner, err := s.partnerRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("查询合作方失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(partner.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if partner.Status != entity.PartnerStatusActive {
		return nil, nil, ErrPartnerNotActive
	}

	pair, err := s.generateTokenPair(ctx, partner)
	if err != nil {
		return nil, nil, err
	}
	return partner, pair, nil
}

// generateTokenPair 签发令牌对，刷新令牌写入redis
func (s *AuthService) generateTokenPair(ctx context.Context, partner *entity.Partner) (*TokenPair, error) {
	now := time.Now()
	accessTTL := time.Duration(s.cfg.Auth.AccessTokenTTL) * time.Minute

	claims := middleware.JWTClaims{
		PartnerID:   partner.ID,
		Name:        partner.Name,
		Email:       partner.Email,
		ShippingUID: partner.ShippingUID,
		Role:        partner.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "unisew-partner",
			Subject:   partner.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
			ID:        uuid.New().String(),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("签发访问令牌失败: %w", err)
	}

	refreshToken := uuid.New().String()
	refreshTTL := time.Duration(s.cfg.Auth.RefreshTokenTTL) * time.Hour
	if err := s.rdb.Set(ctx, refreshKeyPrefix+refreshToken, partner.ID, refreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("存储刷新令牌失败: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

// RefreshToken 用刷新令牌换新令牌对（旋转：旧令牌作废）
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	key := refreshKeyPrefix + refreshToken
	partnerID, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("读取刷新令牌失败: %w", err)
	}

	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("查询合作方失败: %w", err)
	}
	if partner.Status != entity.PartnerStatusActive {
		return nil, ErrPartnerNotActive
	}

	s.rdb.Del(ctx, key)
	return s.generateTokenPair(ctx, partner)
}

// Logout 注销刷新令牌
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.rdb.Del(ctx, refreshKeyPrefix+refreshToken).Err()
}

// GetCurrentPartner 获取当前登录合作方
func (s *AuthService) GetCurrentPartner(ctx context.Context, partnerID string) (*entity.Partner, error) {
	return s.partnerRepo.FindByID(ctx, partnerID)
}
