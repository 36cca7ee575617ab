package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/minio/minio-go/v7"
)

// ErrStorageUnavailable 对象存储未配置或不可用
var ErrStorageUnavailable = fmt.Errorf("对象存储不可用")

// ProfileService 工厂档案服务
type ProfileService struct {
	partnerRepo *repository.PartnerRepository
	store       *minio.Client
	bucket      string
}

// NewProfileService 创建档案服务
func NewProfileService(partnerRepo *repository.PartnerRepository, store *minio.Client, bucket string) *ProfileService {
	return &ProfileService{partnerRepo: partnerRepo, store: store, bucket: bucket}
}

// Get 获取工厂档案（含钱包）
func (s *ProfileService) Get(ctx context.Context, partnerID string) (*entity.Partner, error) {
	return s.partnerRepo.FindByID(ctx, partnerID)
}

// UpdateProfileRequest 档案更新请求。税号与邮箱注册后不可变。
type UpdateProfileRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Phone       string `json:"phone" binding:"required,max=20"`
	ShippingUID string `json:"shipping_uid"`
	ProvinceID  int    `json:"province_id" binding:"required"`
	DistrictID  int    `json:"district_id" binding:"required"`
	WardCode    string `json:"ward_code" binding:"required"`
	Address     string `json:"address" binding:"required,max=256"`
}

// Update 更新工厂档案
func (s *ProfileService) Update(ctx context.Context, partnerID string, req *UpdateProfileRequest) (*entity.Partner, error) {
	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	partner.Name = req.Name
	partner.Phone = req.Phone
	partner.ShippingUID = req.ShippingUID
	partner.ProvinceID = req.ProvinceID
	partner.DistrictID = req.DistrictID
	partner.WardCode = req.WardCode
	partner.Address = req.Address
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("更新档案失败: %w", err)
	}
	return partner, nil
}

// UploadAvatar 上传工厂头像到对象存储，回填AvatarURL
func (s *ProfileService) UploadAvatar(ctx context.Context, partnerID, filename, contentType string, size int64, reader io.Reader) (*entity.Partner, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectName := fmt.Sprintf("avatars/%s%s", partnerID, ext)
	_, err = s.store.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("上传头像失败: %w", err)
	}

	partner.AvatarURL = fmt.Sprintf("/%s/%s", s.bucket, objectName)
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("更新头像地址失败: %w", err)
	}
	return partner, nil
}
