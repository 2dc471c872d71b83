package repository

import (
	"context"
	"time"

	"freshmart/internal/domain/model"
)

// ワンタイムコードの保存。
// 同じ電話番号への再送信は上書き、検証成功で削除する。
type OTPRepository interface {
	Upsert(ctx context.Context, code model.OTPCode) error
	FindByPhone(ctx context.Context, phone string) (model.OTPCode, error)
	DeleteByPhone(ctx context.Context, phone string) error
	//期限切れ行の掃除
	DeleteExpired(ctx context.Context, now time.Time) error
}
