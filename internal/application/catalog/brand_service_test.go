package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

func TestBrandService_Create_Success(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	req := CreateBrandRequest{
		Name:        "Acme",
		Description: "House brand",
		LogoURL:     "https://cdn.example.com/acme.png",
	}

	mockBrandRepo.On("ExistsByName", ctx, req.Name).Return(false, nil)
	mockBrandRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Brand")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Acme", result.Name)
	assert.Equal(t, "House brand", result.Description)
	assert.Equal(t, "active", result.Status)
	mockBrandRepo.AssertExpectations(t)
}

func TestBrandService_Create_DuplicateName(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	req := CreateBrandRequest{Name: "Acme"}

	mockBrandRepo.On("ExistsByName", ctx, req.Name).Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "already exists")
	mockBrandRepo.AssertExpectations(t)
}

func TestBrandService_GetByID_NotFound(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	id := uuid.New()

	mockBrandRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
}

func TestBrandService_Update_Success(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	brand, _ := catalog.NewBrand("Acme", "", "")
	newName := "Acme Holdings"

	mockBrandRepo.On("FindByID", ctx, brand.ID).Return(brand, nil)
	mockBrandRepo.On("ExistsByName", ctx, newName).Return(false, nil)
	mockBrandRepo.On("Save", ctx, brand).Return(nil)

	result, err := service.Update(ctx, brand.ID, UpdateBrandRequest{Name: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Acme Holdings", result.Name)
	mockBrandRepo.AssertExpectations(t)
}

func TestBrandService_Update_RenameToExistingName(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	brand, _ := catalog.NewBrand("Acme", "", "")
	takenName := "Globex"

	mockBrandRepo.On("FindByID", ctx, brand.ID).Return(brand, nil)
	mockBrandRepo.On("ExistsByName", ctx, takenName).Return(true, nil)

	result, err := service.Update(ctx, brand.ID, UpdateBrandRequest{Name: &takenName})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "already exists")
	mockBrandRepo.AssertExpectations(t)
}

func TestBrandService_Deactivate_Success(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	brand, _ := catalog.NewBrand("Acme", "", "")

	mockBrandRepo.On("FindByID", ctx, brand.ID).Return(brand, nil)
	mockBrandRepo.On("Save", ctx, brand).Return(nil)

	result, err := service.Deactivate(ctx, brand.ID)

	assert.NoError(t, err)
	assert.Equal(t, "inactive", result.Status)
	mockBrandRepo.AssertExpectations(t)
}

func TestBrandService_Delete_Success(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	brand, _ := catalog.NewBrand("Acme", "", "")

	mockBrandRepo.On("FindByID", ctx, brand.ID).Return(brand, nil)
	mockProductRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)
	mockBrandRepo.On("Delete", ctx, brand.ID).Return(nil)

	err := service.Delete(ctx, brand.ID)

	assert.NoError(t, err)
	mockBrandRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestBrandService_Delete_BrandInUse(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	brand, _ := catalog.NewBrand("Acme", "", "")

	mockBrandRepo.On("FindByID", ctx, brand.ID).Return(brand, nil)
	mockProductRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(3), nil)

	err := service.Delete(ctx, brand.ID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "associated products")
	mockBrandRepo.AssertNotCalled(t, "Delete", ctx, brand.ID)
}

func TestBrandService_List_PassesStatusFilter(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewBrandService(mockBrandRepo, mockProductRepo)

	ctx := context.Background()
	brand, _ := catalog.NewBrand("Acme", "", "")

	expectedFilter := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]interface{}{"status": "active"},
	}
	mockBrandRepo.On("FindAll", ctx, expectedFilter).Return([]catalog.Brand{*brand}, nil)
	mockBrandRepo.On("Count", ctx, expectedFilter).Return(int64(1), nil)

	results, total, err := service.List(ctx, BrandListFilter{Status: "active"})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockBrandRepo.AssertExpectations(t)
}
