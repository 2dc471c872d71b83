package repository

import (
	"context"
	"errors"

	"freshmart/internal/domain/model"

	"github.com/shopspring/decimal"
)

// email / phone の一意制約に当たった
var ErrDuplicate = errors.New("duplicate")

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email/phone重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByPhone(ctx context.Context, phone string) (model.User, error)
	//プロフィール更新・検証フラグ・最終ログインなど
	Update(ctx context.Context, user *model.User) error
	//累計節約額にdeltaを加算する
	AddSavings(ctx context.Context, userID int64, delta decimal.Decimal) error
}
