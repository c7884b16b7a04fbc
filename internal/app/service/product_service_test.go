package service

import (
	"context"
	"testing"

	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/db"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) (ProductService, CategoryService) {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo, categoryRepo), NewCategoryService(categoryRepo)
}

func productPayload(categoryID uint, number string) *form.ProductPayload {
	discounted := 150.0
	return &form.ProductPayload{
		ProductNumber:      number,
		SKU:                "SKU-" + number,
		ProductName:        "Leather Boots",
		Brand:              "Clarks",
		CategoryID:         categoryID,
		CategoryName:       "Shoes",
		Price:              200,
		DiscountPercentage: 25,
		PriceAfterDiscount: &discounted,
		StockQuantity:      8,
		Description:        "<p>Classic boots</p>",
		Tags:               []string{"boots", "leather"},
		MediaURL:           []string{"https://cdn.example.com/boots.jpg"},
		Attributes: map[string]interface{}{
			"sizes":  []string{"8", "9"},
			"gender": "Men",
		},
	}
}

func TestProductService_CreateFromPayload(t *testing.T) {
	productSvc, categorySvc := setupProductServiceTest(t)
	category, err := categorySvc.CreateCategory(shoesInput())
	require.NoError(t, err)

	product, err := productSvc.CreateProduct(context.Background(), productPayload(category.ID, "P100"))
	require.NoError(t, err)
	require.NotZero(t, product.ID)
	assert.Equal(t, "Shoes", product.CategoryName)
	assert.Equal(t, "Men", product.Attributes["gender"])
	require.NotNil(t, product.PriceAfterDiscount)
	assert.Equal(t, 150.0, *product.PriceAfterDiscount)
}

func TestProductService_CreateRejectsUnknownCategory(t *testing.T) {
	productSvc, _ := setupProductServiceTest(t)

	_, err := productSvc.CreateProduct(context.Background(), productPayload(999, "P100"))
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductService_DuplicateProductNumber(t *testing.T) {
	productSvc, categorySvc := setupProductServiceTest(t)
	category, err := categorySvc.CreateCategory(shoesInput())
	require.NoError(t, err)

	_, err = productSvc.CreateProduct(context.Background(), productPayload(category.ID, "P100"))
	require.NoError(t, err)

	dup := productPayload(category.ID, "P100")
	dup.SKU = "SKU-other"
	_, err = productSvc.CreateProduct(context.Background(), dup)
	assert.ErrorIs(t, err, ErrProductNumberExists)
}

func TestProductService_SubmitSinkContract(t *testing.T) {
	productSvc, categorySvc := setupProductServiceTest(t)
	category, err := categorySvc.CreateCategory(shoesInput())
	require.NoError(t, err)

	var sink form.SubmitSink = productSvc
	id, err := sink.SubmitProduct(context.Background(), productPayload(category.ID, "P200"))
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestProductService_UpdateKeepsIdentityAndTrend(t *testing.T) {
	productSvc, categorySvc := setupProductServiceTest(t)
	category, err := categorySvc.CreateCategory(shoesInput())
	require.NoError(t, err)

	created, err := productSvc.CreateProduct(context.Background(), productPayload(category.ID, "P100"))
	require.NoError(t, err)
	_, err = productSvc.ToggleTrend(created.ID)
	require.NoError(t, err)

	update := productPayload(category.ID, "P100")
	update.ProductName = "Renamed Boots"
	update.Price = 180
	updated, err := productSvc.UpdateProduct(context.Background(), created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed Boots", updated.Name)
	assert.Equal(t, 180.0, updated.Price)
	assert.True(t, updated.IsTrend, "curation flags survive a form update")
}

func TestProductService_Toggles(t *testing.T) {
	productSvc, categorySvc := setupProductServiceTest(t)
	category, err := categorySvc.CreateCategory(shoesInput())
	require.NoError(t, err)

	created, err := productSvc.CreateProduct(context.Background(), productPayload(category.ID, "P100"))
	require.NoError(t, err)

	toggled, err := productSvc.ToggleFeatured(created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFeatured)
	toggled, err = productSvc.ToggleFeatured(created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFeatured)

	_, err = productSvc.ToggleFeatured(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_AddTrends(t *testing.T) {
	productSvc, categorySvc := setupProductServiceTest(t)
	category, err := categorySvc.CreateCategory(shoesInput())
	require.NoError(t, err)

	a, err := productSvc.CreateProduct(context.Background(), productPayload(category.ID, "P1"))
	require.NoError(t, err)
	b, err := productSvc.CreateProduct(context.Background(), productPayload(category.ID, "P2"))
	require.NoError(t, err)

	products, err := productSvc.AddTrends([]uint{a.ID, b.ID})
	require.NoError(t, err)
	for _, p := range products {
		assert.True(t, p.IsTrend)
	}

	_, err = productSvc.AddTrends([]uint{a.ID, 9999})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Export(t *testing.T) {
	productSvc, categorySvc := setupProductServiceTest(t)
	category, err := categorySvc.CreateCategory(shoesInput())
	require.NoError(t, err)

	_, err = productSvc.CreateProduct(context.Background(), productPayload(category.ID, "P100"))
	require.NoError(t, err)

	file, err := productSvc.ExportProducts()
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one product")
	assert.Equal(t, "Product Number", rows[0][0])
	assert.Equal(t, "P100", rows[1][0])
}
