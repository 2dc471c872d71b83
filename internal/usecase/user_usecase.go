package usecase

import (
	"context"
	"net/http"
	"strings"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

type UserUsecase struct {
	users         repo.UserRepository
	orders        repo.OrderRepository
	wishlists     repo.WishlistRepository
	wishlistItems repo.WishlistItemRepository
}

func NewUserUsecase(users repo.UserRepository, orders repo.OrderRepository, wishlists repo.WishlistRepository, wishlistItems repo.WishlistItemRepository) *UserUsecase {
	return &UserUsecase{
		users:         users,
		orders:        orders,
		wishlists:     wishlists,
		wishlistItems: wishlistItems,
	}
}

// 未指定フィールドはnilのまま＝変更しない
type UpdateProfileInput struct {
	Name                 *string `json:"name"`
	Email                *string `json:"email"`
	Phone                *string `json:"phone"`
	ProfilePhoto         *string `json:"profile_photo"`
	Address              *string `json:"address"`
	City                 *string `json:"city"`
	State                *string `json:"state"`
	Pincode              *string `json:"pincode"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

type UserStats struct {
	TotalOrders   int64           `json:"total_orders"`
	WishlistCount int64           `json:"wishlist_count"`
	TotalSavings  decimal.Decimal `json:"total_savings"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

func (u *UserUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 2 || len(name) > 100 {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid name")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			user.Email = nil
		} else {
			if !emailPattern.MatchString(email) {
				return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email")
			}
			user.Email = &email
		}
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			user.Phone = nil
		} else {
			if !phonePattern.MatchString(phone) {
				return model.User{}, NewHTTPError(http.StatusBadRequest, "phone number must be 10 digits")
			}
			user.Phone = &phone
		}
	}
	if in.ProfilePhoto != nil {
		user.ProfilePhoto = *in.ProfilePhoto
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.City != nil {
		user.City = *in.City
	}
	if in.State != nil {
		user.State = *in.State
	}
	if in.Pincode != nil {
		user.Pincode = *in.Pincode
	}
	if in.NotificationsEnabled != nil {
		user.NotificationsEnabled = *in.NotificationsEnabled
	}

	if err := u.users.Update(ctx, &user); err != nil {
		if err == repo.ErrDuplicate {
			return model.User{}, NewHTTPError(http.StatusConflict, "email or phone already in use")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

// Stats はプロフィール画面用の集計。どれかの取得に失敗したら丸ごとエラー。
func (u *UserUsecase) Stats(ctx context.Context, userID int64) (UserStats, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserStats{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	totalOrders, err := u.orders.CountByUserID(ctx, userID)
	if err != nil {
		return UserStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var wishlistCount int64
	wl, err := u.wishlists.FindByUserID(ctx, userID)
	if err == nil {
		wishlistCount, err = u.wishlistItems.CountByWishlistID(ctx, wl.ID)
		if err != nil {
			return UserStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	} else if err != repo.ErrNotFound {
		return UserStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//節約額は注文実績からの再計算と累計カラムの大きい方を採用する
	savedOnOrders, err := u.orders.SumDiscountByUserID(ctx, userID)
	if err != nil {
		return UserStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	totalSavings := savedOnOrders
	if user.TotalSavings.GreaterThan(totalSavings) {
		totalSavings = user.TotalSavings
	}

	return UserStats{
		TotalOrders:   totalOrders,
		WishlistCount: wishlistCount,
		TotalSavings:  totalSavings,
		WalletBalance: user.WalletBalance,
	}, nil
}
