package usecase_test

import (
	"context"
	"testing"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
	"freshmart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductUsecase_ListProducts_InvalidPage(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), new(CategoryRepoMock))

	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{
		Query: repo.ProductListQuery{Page: 0, PageSize: 20},
	})
	assertErrContains(t, err, "invalid page")
}

func TestProductUsecase_ListProducts_InvalidPageSize(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), new(CategoryRepoMock))

	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{
		Query: repo.ProductListQuery{Page: 1, PageSize: 101},
	})
	assertErrContains(t, err, "invalid page_size")
}

func TestProductUsecase_ListProducts_TotalPages(t *testing.T) {
	productsRepo := new(ProductRepoMock)

	q := repo.ProductListQuery{Page: 1, PageSize: 20}
	productsRepo.On("ListActive", mock.Anything, q).Return([]model.Product{
		{ID: 1, Name: "Fresh Tomatoes"},
	}, int64(41), nil)

	uc := usecase.NewProductUsecase(productsRepo, new(CategoryRepoMock))

	out, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{Query: q})
	assert.NoError(t, err)
	assert.Equal(t, int64(41), out.Total)
	// 41件 / 20件ページ → 3ページ（端数切り上げ）
	assert.Equal(t, int64(3), out.TotalPages)
	assert.Equal(t, 1, out.Page)

	productsRepo.AssertExpectations(t)
}

func TestProductUsecase_ListFeatured_LimitBounds(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), new(CategoryRepoMock))

	_, err := uc.ListFeatured(context.Background(), 0)
	assertErrContains(t, err, "invalid limit")

	_, err = uc.ListFeatured(context.Background(), 51)
	assertErrContains(t, err, "invalid limit")
}

func TestProductUsecase_GetProduct_NotFound(t *testing.T) {
	productsRepo := new(ProductRepoMock)
	productsRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewProductUsecase(productsRepo, new(CategoryRepoMock))

	_, err := uc.GetProduct(context.Background(), 99)
	assertErrContains(t, err, "product not found")
}

func TestProductUsecase_GetProduct_InactiveIsHidden(t *testing.T) {
	productsRepo := new(ProductRepoMock)
	productsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Product{
		ID: 3, Name: "Old Item", IsActive: false,
	}, nil)

	uc := usecase.NewProductUsecase(productsRepo, new(CategoryRepoMock))

	_, err := uc.GetProduct(context.Background(), 3)
	assertErrContains(t, err, "product not found")
}

func TestProductUsecase_GetProduct_Success(t *testing.T) {
	productsRepo := new(ProductRepoMock)
	productsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Product{
		ID: 3, Name: "Fresh Tomatoes", IsActive: true, Price: dec("35"),
	}, nil)

	uc := usecase.NewProductUsecase(productsRepo, new(CategoryRepoMock))

	p, err := uc.GetProduct(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, "Fresh Tomatoes", p.Name)
}
