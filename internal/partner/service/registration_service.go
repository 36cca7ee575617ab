package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/config"
	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/shared/vietqr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// confirmKeyPrefix 注册确认token的redis键前缀
const confirmKeyPrefix = "unisew:confirm:"

// confirmTTL 确认链接有效期
const confirmTTL = 24 * time.Hour

// RegistrationService 合作方注册服务：税号查验 → 建档（pending）→ 邮箱确认激活
type RegistrationService struct {
	partnerRepo *repository.PartnerRepository
	walletRepo  *repository.WalletRepository
	rdb         *redis.Client
	taxLookup   TaxLookup
	mail        MailSender
	cfg         *config.Config
}

// NewRegistrationService 创建注册服务
func NewRegistrationService(partnerRepo *repository.PartnerRepository, walletRepo *repository.WalletRepository,
	rdb *redis.Client, taxLookup TaxLookup, mail MailSender, cfg *config.Config) *RegistrationService {
	return &RegistrationService{
		partnerRepo: partnerRepo,
		walletRepo:  walletRepo,
		rdb:         rdb,
		taxLookup:   taxLookup,
		mail:        mail,
		cfg:         cfg,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	TaxCode     string `json:"tax_code" binding:"required,taxcode"`
	ShippingUID string `json:"shipping_uid"`
	ProvinceID  int    `json:"province_id" binding:"required"`
	DistrictID  int    `json:"district_id" binding:"required"`
	WardCode    string `json:"ward_code" binding:"required"`
	Address     string `json:"address" binding:"required"`
}

// Register 注册合作方。税号经VietQR查验，通过后建档并发送确认邮件。
func (s *RegistrationService) Register(ctx context.Context, req *RegisterRequest) (*entity.Partner, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.partnerRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("查询邮箱失败: %w", err)
	}

	taken, err := s.partnerRepo.ExistsByTaxCode(ctx, req.TaxCode)
	if err != nil {
		return nil, fmt.Errorf("查询税号失败: %w", err)
	}
	if taken {
		return nil, ErrTaxCodeTaken
	}

	// 税号查验：未登记直接拒绝，上游故障放行（建档后人工复核）
	var businessName string
	biz, err := s.taxLookup.LookupBusiness(ctx, req.TaxCode)
	switch {
	case err == nil:
		businessName = biz.Name
	case errors.Is(err, vietqr.ErrTaxCodeNotFound):
		return nil, fmt.Errorf("税号查验未通过: %w", err)
	default:
		businessName = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	partner := &entity.Partner{
		ID:           generateID(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Status:       entity.PartnerStatusPending,
		Role:         "partner",
		TaxCode:      req.TaxCode,
		BusinessName: businessName,
		ShippingUID:  req.ShippingUID,
		ProvinceID:   req.ProvinceID,
		DistrictID:   req.DistrictID,
		WardCode:     req.WardCode,
		Address:      req.Address,
	}
	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, fmt.Errorf("创建合作方失败: %w", err)
	}

	wallet := &entity.Wallet{
		ID:        generateID(),
		PartnerID: partner.ID,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("创建钱包失败: %w", err)
	}

	if err := s.sendConfirmation(ctx, partner); err != nil {
		// 邮件失败不回滚建档，可通过重发接口补救
		return partner, fmt.Errorf("发送确认邮件失败: %w", err)
	}
	return partner, nil
}

// sendConfirmation 生成确认token（24小时有效）并发邮件
func (s *RegistrationService) sendConfirmation(ctx context.Context, partner *entity.Partner) error {
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, confirmKeyPrefix+token, partner.ID, confirmTTL).Err(); err != nil {
		return fmt.Errorf("存储确认token失败: %w", err)
	}
	confirmURL := fmt.Sprintf("%s/api/v1/auth/confirm?token=%s", s.cfg.Server.BaseURL, token)
	return s.mail.SendConfirmation(partner.Email, partner.Name, confirmURL)
}

// ResendConfirmation 重发确认邮件
func (s *RegistrationService) ResendConfirmation(ctx context.Context, email string) error {
	partner, err := s.partnerRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ErrConfirmTokenInvalid
	}
	if partner.Status != entity.PartnerStatusPending {
		return ErrConfirmTokenInvalid
	}
	return s.sendConfirmation(ctx, partner)
}

// Confirm 确认邮箱并激活账号。token一次性。
func (s *RegistrationService) Confirm(ctx context.Context, token string) (*entity.Partner, error) {
	key := confirmKeyPrefix + token
	partnerID, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrConfirmTokenInvalid
		}
		return nil, fmt.Errorf("读取确认token失败: %w", err)
	}

	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("查询合作方失败: %w", err)
	}
	if partner.Status == entity.PartnerStatusPending {
		now := time.Now()
		partner.Status = entity.PartnerStatusActive
		partner.ConfirmedAt = &now
		if err := s.partnerRepo.Update(ctx, partner); err != nil {
			return nil, fmt.Errorf("激活账号失败: %w", err)
		}
	}
	s.rdb.Del(ctx, key)
	return partner, nil
}

// generateID 生成32位实体ID
func generateID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
