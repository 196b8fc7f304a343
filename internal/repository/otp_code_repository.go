package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/tuanasish/leave-request/internal/models"

	"gorm.io/gorm"
)

// ErrActiveOTPExists 同一标识与类型已存在未使用的验证码（并发发放冲突）
var ErrActiveOTPExists = errors.New("active otp already exists")

// OTPCodeRepository 验证码数据访问接口
type OTPCodeRepository interface {
	GetLatestActive(ctx context.Context, identifier, otpType string) (*models.OTPCode, error)
	GetByID(ctx context.Context, id uint) (*models.OTPCode, error)
	Replace(ctx context.Context, code *models.OTPCode) error
	MarkUsed(ctx context.Context, id uint) error
	IncrementAttempt(ctx context.Context, id uint, maxAttempts int) (bool, error)
	Consume(ctx context.Context, id uint) (bool, error)
}

// GormOTPCodeRepository GORM 实现
type GormOTPCodeRepository struct {
	db *gorm.DB
}

// NewOTPCodeRepository 创建验证码仓库
func NewOTPCodeRepository(db *gorm.DB) *GormOTPCodeRepository {
	return &GormOTPCodeRepository{db: db}
}

// GetLatestActive 获取最新一条未使用的验证码
func (r *GormOTPCodeRepository) GetLatestActive(ctx context.Context, identifier, otpType string) (*models.OTPCode, error) {
	var record models.OTPCode
	if err := r.db.WithContext(ctx).
		Where("identifier = ? AND type = ? AND used = ?", identifier, otpType, false).
		Order("created_at desc, id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByID 按主键获取
func (r *GormOTPCodeRepository) GetByID(ctx context.Context, id uint) (*models.OTPCode, error) {
	var record models.OTPCode
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Replace 作废同一标识与类型的旧验证码并写入新记录
func (r *GormOTPCodeRepository) Replace(ctx context.Context, code *models.OTPCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OTPCode{}).
			Where("identifier = ? AND type = ? AND used = ?", code.Identifier, code.Type, false).
			Update("used", true).Error; err != nil {
			return err
		}
		if err := tx.Create(code).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrActiveOTPExists
			}
			return err
		}
		return nil
	})
}

// MarkUsed 标记验证码已使用
func (r *GormOTPCodeRepository) MarkUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.OTPCode{}).
		Where("id = ?", id).
		Update("used", true).Error
}

// IncrementAttempt 在未使用且未超限时增加尝试次数，返回是否成功占用一次尝试
func (r *GormOTPCodeRepository) IncrementAttempt(ctx context.Context, id uint, maxAttempts int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.OTPCode{}).
		Where("id = ? AND used = ? AND attempts < ?", id, false, maxAttempts).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Consume 将未使用的验证码置为已使用，只有一个调用方能成功
func (r *GormOTPCodeRepository) Consume(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.OTPCode{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") ||
		strings.Contains(message, "duplicate key") ||
		strings.Contains(message, "duplicate entry")
}
