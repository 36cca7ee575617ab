package repository

import (
	"context"
	"errors"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"gorm.io/gorm"
)

// PartnerRepository 合作方仓库
type PartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository 创建合作方仓库
func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// FindByID 根据ID查找合作方
func (r *PartnerRepository) FindByID(ctx context.Context, id string) (*entity.Partner, error) {
	var partner entity.Partner
	err := r.db.WithContext(ctx).
		Preload("Wallet").
		Where("id = ?", id).
		First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// FindByEmail 根据邮箱查找合作方
func (r *PartnerRepository) FindByEmail(ctx context.Context, email string) (*entity.Partner, error) {
	var partner entity.Partner
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// ExistsByTaxCode 税号是否已被注册
func (r *PartnerRepository) ExistsByTaxCode(ctx context.Context, taxCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Partner{}).
		Where("tax_code = ?", taxCode).
		Count(&count).Error
	return count > 0, err
}

// Create 创建合作方
func (r *PartnerRepository) Create(ctx context.Context, partner *entity.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

// Update 更新合作方
func (r *PartnerRepository) Update(ctx context.Context, partner *entity.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}
