package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

type CartRepository interface {
	//無ければ作る。登録時にも呼んで先に行を用意しておく。
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	//チェックアウト中の競合を防ぐための行ロック付き取得
	LockByUserID(ctx context.Context, userID int64) (model.Cart, error)
	//明細を全削除（カート行は残す）
	Clear(ctx context.Context, cartID int64) error
}
