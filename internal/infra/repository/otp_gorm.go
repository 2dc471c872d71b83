package repository

import (
	"context"
	"errors"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPGormRepository struct {
	db *gorm.DB
}

// DI
func NewOTPGormRepository(db *gorm.DB) *OTPGormRepository {
	return &OTPGormRepository{db: db}
}

// 同じ電話番号への再送信はコードと期限を上書き
func (r *OTPGormRepository) Upsert(ctx context.Context, code model.OTPCode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
		}).
		Create(&code).Error
}

func (r *OTPGormRepository) FindByPhone(ctx context.Context, phone string) (model.OTPCode, error) {
	var code model.OTPCode

	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&code).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OTPCode{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OTPCode{}, err
	}
	return code, nil
}

func (r *OTPGormRepository) DeleteByPhone(ctx context.Context, phone string) error {
	return r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Delete(&model.OTPCode{}).Error
}

// 期限切れ行の掃除
func (r *OTPGormRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.OTPCode{}).Error
}
