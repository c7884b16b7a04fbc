package repository

import (
	"testing"

	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryRepo(t *testing.T) (CategoryRepository, *gorm.DB) {
	t.Helper()
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })
	return NewCategoryRepository(database), database
}

func clothingCategory() *model.Category {
	return &model.Category{
		Name:   "Clothing",
		NameAr: "ملابس",
		Attributes: []model.CategoryAttribute{
			{Name: "sizes", Label: "Sizes", Kind: "multi-select", Options: model.StringList{"S", "M", "L"}, SortOrder: 0},
			{Name: "material", Label: "Material", Kind: "text", SortOrder: 1},
		},
	}
}

func TestCategoryRepositoryCreateAndFind(t *testing.T) {
	repo, _ := setupCategoryRepo(t)

	category := clothingCategory()
	require.NoError(t, repo.Create(category))
	require.NotZero(t, category.ID)

	found, err := repo.FindByID(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clothing", found.Name)
	require.Len(t, found.Attributes, 2)
	assert.Equal(t, "sizes", found.Attributes[0].Name, "attributes come back in sort order")
	assert.Equal(t, model.StringList{"S", "M", "L"}, found.Attributes[0].Options)

	byName, err := repo.FindByName("Clothing")
	require.NoError(t, err)
	assert.Equal(t, category.ID, byName.ID)
}

func TestCategoryRepositoryDuplicateName(t *testing.T) {
	repo, _ := setupCategoryRepo(t)

	require.NoError(t, repo.Create(&model.Category{Name: "Shoes"}))
	err := repo.Create(&model.Category{Name: "Shoes"})
	assert.Error(t, err)
}

func TestCategoryRepositoryReplaceAttributes(t *testing.T) {
	repo, database := setupCategoryRepo(t)

	category := clothingCategory()
	require.NoError(t, repo.Create(category))

	err := repo.ReplaceAttributes(category.ID, []model.CategoryAttribute{
		{Name: "colors", Label: "Colors", Kind: "multi-select", Options: model.StringList{"Red", "Blue"}},
	})
	require.NoError(t, err)

	found, err := repo.FindByID(category.ID)
	require.NoError(t, err)
	require.Len(t, found.Attributes, 1)
	assert.Equal(t, "colors", found.Attributes[0].Name)

	var orphans int64
	database.Model(&model.CategoryAttribute{}).
		Where("name IN ?", []string{"sizes", "material"}).
		Count(&orphans)
	assert.Zero(t, orphans, "old attribute rows are gone")
}

func TestCategoryRepositoryDeleteRemovesAttributes(t *testing.T) {
	repo, database := setupCategoryRepo(t)

	category := clothingCategory()
	require.NoError(t, repo.Create(category))
	require.NoError(t, repo.Delete(category.ID))

	_, err := repo.FindByID(category.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var remaining int64
	database.Model(&model.CategoryAttribute{}).
		Where("category_id = ?", category.ID).
		Count(&remaining)
	assert.Zero(t, remaining)
}
