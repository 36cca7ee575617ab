package service

import (
	"context"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/config"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/shared/ghn"
	"github.com/KenTheWhale/unisew-partner/internal/shared/vietqr"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// ShippingEstimator 物流时效预估接口（测试可注入桩实现）
type ShippingEstimator interface {
	CalculateLeadTime(ctx context.Context, shopID string, req ghn.LeadTimeRequest) (int64, error)
}

// TaxLookup 税号查验接口
type TaxLookup interface {
	LookupBusiness(ctx context.Context, taxCode string) (*vietqr.Business, error)
}

// MailSender 确认邮件发送接口
type MailSender interface {
	SendConfirmation(to, partnerName, confirmURL string) error
}

// Services 服务集合
type Services struct {
	Auth         *AuthService
	Registration *RegistrationService
	Phase        *PhaseService
	Order        *OrderService
	Milestone    *MilestoneService
	Wallet       *WalletService
	Profile      *ProfileService
	Shipping     *ShippingService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, mail MailSender) *Services {
	ghnClient := ghn.NewClient(cfg.GHN.Token)
	vietqrClient := vietqr.NewClient()

	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			minioClient = nil
		}
	}

	walletSvc := NewWalletService(repos.Wallet, vietqrClient)

	return &Services{
		Auth:         NewAuthService(repos.Partner, rdb, cfg),
		Registration: NewRegistrationService(repos.Partner, repos.Wallet, rdb, vietqrClient, mail, cfg),
		Phase:        NewPhaseService(repos.Phase),
		Order:        NewOrderService(repos.Order),
		Milestone:    NewMilestoneService(repos.Partner, repos.Order, repos.Phase, repos.Milestone, walletSvc, ghnClient, cfg.GHN.ServiceID),
		Wallet:       walletSvc,
		Profile:      NewProfileService(repos.Partner, minioClient, cfg.MinIO.Bucket),
		Shipping:     NewShippingService(ghnClient),
	}
}

// now 可注入时钟（测试用），默认系统时间
type clock func() time.Time

func systemClock() time.Time { return time.Now() }
