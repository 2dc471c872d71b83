package repository

import (
	"context"
	"errors"

	"freshmart/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索の条件
type ProductListQuery struct {
	Page        int
	PageSize    int
	Q           string
	CategoryID  *int64
	Subcategory string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinDiscount *int64
	InStockOnly bool
	IsFeatured  *bool
	Sort        string
}

// 商品の読み取りだけを約束。カート・注文側からは変更しない。
type ProductRepository interface {
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
}

// カテゴリの読み取り
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]model.Category, error)
}
