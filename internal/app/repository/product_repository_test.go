package repository

import (
	"testing"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	return testDB, repo
}

func newTestProduct(name string) *model.Product {
	return &model.Product{
		Name:            name,
		Description:     "OEM replacement part",
		Price:           1499.0,
		Stock:           10,
		Brand:           "Bosch",
		CompatibleBikes: []string{"Pulsar 150", "Apache RTR 160"},
	}
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct("Spark Plug")
	err := repo.Create(product)

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, model.DefaultProductCategory, product.Category)
	assert.False(t, product.AddedOn.IsZero())
}

func TestProductRepository_CreateKeepsCategory(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct("Brake Pad")
	product.Category = "brakes"
	require.NoError(t, repo.Create(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "brakes", found.Category)
	assert.Equal(t, []string{"Pulsar 150", "Apache RTR 160"}, found.CompatibleBikes)
}

func TestProductRepository_CreateBatch(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{*newTestProduct("Chain"), *newTestProduct("Sprocket"), *newTestProduct("Clutch Plate")}
	require.NoError(t, repo.CreateBatch(products, 2))
	require.NoError(t, repo.CreateBatch(nil, 2))

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct("Air Filter")
	require.NoError(t, repo.Create(product))

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "Existing product", id: product.ID},
		{name: "Non-existent product", id: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				assert.Equal(t, product.Name, found.Name)
			}
		})
	}
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct("Headlight")
	require.NoError(t, repo.Create(product))

	product.Price = 999.0
	product.IsFeatured = true
	require.NoError(t, repo.Update(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 999.0, found.Price)
	assert.True(t, found.IsFeatured)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct("Mirror")
	require.NoError(t, repo.Create(product))

	deleted, err := repo.Delete(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, deleted.ID)

	_, err = repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Delete(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
