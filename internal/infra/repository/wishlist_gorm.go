package repository

import (
	"context"
	"errors"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"gorm.io/gorm"
)

// WishlistRepository と WishlistItemRepository の両方を実装する。
type WishlistGormRepository struct {
	db *gorm.DB
}

// DI
func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

// ユーザーのウィッシュリストを取得し、無ければ作成
func (r *WishlistGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error) {
	var wl model.Wishlist

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Where("user_id = ?", userID).
			First(&wl).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		//INSERTはSAVEPOINTで囲む。一意制約に負けてもtxは生きたままなのでもう一度引ける。
		newWl := model.Wishlist{UserID: userID}
		if err := tx.Transaction(func(tx2 *gorm.DB) error {
			return tx2.Create(&newWl).Error
		}); err != nil {
			retryErr := tx.
				Where("user_id = ?", userID).
				First(&wl).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		wl = newWl
		return nil
	})

	if err != nil {
		return model.Wishlist{}, err
	}
	return wl, nil
}

func (r *WishlistGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Wishlist, error) {
	var wl model.Wishlist

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&wl).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Wishlist{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Wishlist{}, err
	}
	return wl, nil
}

// 明細を全削除（リスト行は残す）
func (r *WishlistGormRepository) Clear(ctx context.Context, wishlistID int64) error {
	return r.db.WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Delete(&model.WishlistItem{}).Error
}

// 明細を追加順で一覧取得
func (r *WishlistGormRepository) ListByWishlistID(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error) {
	var items []model.WishlistItem

	if err := r.db.WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.WishlistItem{}, err
	}

	return items, nil
}

func (r *WishlistGormRepository) FindByWishlistAndProduct(ctx context.Context, wishlistID int64, productID int64) (model.WishlistItem, error) {
	var item model.WishlistItem

	err := r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WishlistItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.WishlistItem{}, err
	}
	return item, nil
}

func (r *WishlistGormRepository) Create(ctx context.Context, item *model.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *WishlistGormRepository) DeleteByID(ctx context.Context, itemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.WishlistItem{}, itemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WishlistGormRepository) CountByWishlistID(ctx context.Context, wishlistID int64) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("wishlist_id = ?", wishlistID).
		Count(&count).Error

	if err != nil {
		return 0, err
	}
	return count, nil
}

// itemが、そのuserのウィッシュリストに属しているかを判定
func (r *WishlistGormRepository) IsOwnedByUser(ctx context.Context, itemID int64, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Joins("join wishlists on wishlists.id = wishlist_items.wishlist_id").
		Where("wishlist_items.id = ? AND wishlists.user_id = ?", itemID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
