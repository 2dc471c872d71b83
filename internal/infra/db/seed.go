package db

import (
	"freshmart/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed はカタログが空のときだけサンプルのカテゴリ・商品を投入する。
func Seed(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []model.Category{
		{Name: "Vegetables & Fruits", Slug: "vegetables-fruits", Icon: "fa-carrot"},
		{Name: "Dairy & Eggs", Slug: "dairy-eggs", Icon: "fa-egg"},
		{Name: "Bakery", Slug: "bakery", Icon: "fa-bread-slice"},
		{Name: "Beverages", Slug: "beverages", Icon: "fa-glass-water"},
		{Name: "Dry Fruits", Slug: "dry-fruits", Icon: "fa-seedling"},
		{Name: "Masalas", Slug: "masalas", Icon: "fa-pepper-hot"},
		{Name: "Oils & Sauces", Slug: "oils-sauces", Icon: "fa-bottle-droplet"},
		{Name: "Chocolates", Slug: "chocolates", Icon: "fa-candy-cane"},
	}

	return gormDB.Transaction(func(tx *gorm.DB) error {
		bySlug := map[string]int64{}
		for i := range categories {
			categories[i].DisplayOrder = int64(i)
			if err := tx.Create(&categories[i]).Error; err != nil {
				return err
			}
			bySlug[categories[i].Slug] = categories[i].ID
		}

		products := []model.Product{
			seedProduct("Fresh Tomatoes", "fresh-tomatoes", bySlug["vegetables-fruits"], "fresh-vegetables", 35, 45, "500g", true),
			seedProduct("Taj Mahal Tea", "taj-mahal-tea", bySlug["beverages"], "tea", 25, 30, "250g", true),
			seedProduct("White Eggs", "white-eggs", bySlug["dairy-eggs"], "eggs", 40, 50, "12pcs", true),
			seedProduct("White Bread", "white-bread", bySlug["bakery"], "bread", 40, 50, "400g", true),
			seedProduct("Organic Cashews", "organic-cashews", bySlug["dry-fruits"], "nuts", 299, 399, "250g", true),
			seedProduct("Red Chili Powder", "red-chili-powder", bySlug["masalas"], "basic-masalas", 45, 55, "200g", true),
			seedProduct("Sunflower Oil", "sunflower-oil", bySlug["oils-sauces"], "cooking-oils", 150, 180, "1L", true),
			seedProduct("Cadbury Silk", "cadbury-silk", bySlug["chocolates"], "milk-chocolates", 85, 100, "150g", true),
			seedProduct("Fresh Potatoes", "fresh-potatoes", bySlug["vegetables-fruits"], "fresh-vegetables", 30, 40, "1kg", false),
			seedProduct("Red Apples", "red-apples", bySlug["vegetables-fruits"], "fresh-fruits", 149, 199, "1kg", false),
		}

		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seedProduct(name, slug string, categoryID int64, subcategory string, price, originalPrice int64, weight string, featured bool) model.Product {
	p := decimal.NewFromInt(price)
	op := decimal.NewFromInt(originalPrice)

	//割引率は表示用の概算
	discountPct := op.Sub(p).Div(op).Mul(decimal.NewFromInt(100)).IntPart()

	return model.Product{
		Name:               name,
		Slug:               slug,
		CategoryID:         &categoryID,
		Subcategory:        subcategory,
		Price:              p,
		OriginalPrice:      decimal.NullDecimal{Decimal: op, Valid: true},
		DiscountPercentage: discountPct,
		Weight:             weight,
		StockQuantity:      100,
		IsInStock:          true,
		IsActive:           true,
		IsFeatured:         featured,
	}
}
