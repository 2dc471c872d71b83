package repository

import (
	"context"
	"errors"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開中の商品をフィルタ＋ページングで返す
func (r *ProductGormRepository) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("is_active = ?", true)

	if q.Q != "" {
		like := "%" + q.Q + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.Subcategory != "" {
		tx = tx.Where("subcategory = ?", q.Subcategory)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	if q.MinDiscount != nil {
		tx = tx.Where("discount_percentage >= ?", *q.MinDiscount)
	}
	if q.InStockOnly {
		tx = tx.Where("is_in_stock = ?", true)
	}
	if q.IsFeatured != nil {
		tx = tx.Where("is_featured = ?", *q.IsFeatured)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case "price-low":
		tx = tx.Order("price asc")
	case "price-high":
		tx = tx.Order("price desc")
	case "discount":
		tx = tx.Order("discount_percentage desc")
	default:
		//relevance
		tx = tx.Order("is_featured desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.PageSize

	var products []model.Product
	if err := tx.Offset(offset).Limit(q.PageSize).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// おすすめ商品を割引率の高い順で返す
func (r *ProductGormRepository) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product

	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("discount_percentage desc").
		Limit(limit).
		Find(&products).Error

	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// 表示順で公開カテゴリを返す
func (r *CategoryGormRepository) ListActive(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order asc").
		Find(&categories).Error

	if err != nil {
		return nil, err
	}
	return categories, nil
}
