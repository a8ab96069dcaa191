package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/core/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) MarkCategoryDeleted(ctx context.Context, categoryID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, categoryID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Test Suite ---
type CategoryServiceTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	service          portssvc.CategorySvcFacade
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.service = services.NewCategoryService(suite.mockCategoryRepo)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateCategoryRequest{Name: "Groceries", CategoryType: domain.CategoryExpense, Icon: "cart"}

	suite.mockCategoryRepo.On("SaveCategory", ctx, mock.MatchedBy(func(category domain.Category) bool {
		return category.UserID == userID &&
			category.Name == "Groceries" &&
			category.CategoryType == domain.CategoryExpense &&
			!category.IsSystem
	})).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, userID, req)

	suite.Require().NoError(err)
	suite.NotEmpty(category.CategoryID)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestGetCategoryByID_SystemVisibleToEveryone() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	system := &domain.Category{CategoryID: categoryID, Name: "Salary", CategoryType: domain.CategoryIncome, IsSystem: true}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(system, nil).Once()

	category, err := suite.service.GetCategoryByID(ctx, uuid.NewString(), categoryID)

	suite.Require().NoError(err)
	suite.Equal(system, category)
}

func (suite *CategoryServiceTestSuite) TestGetCategoryByID_OtherUsersCategory() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	owned := &domain.Category{CategoryID: categoryID, UserID: uuid.NewString(), Name: "Side Hustle"}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(owned, nil).Once()

	category, err := suite.service.GetCategoryByID(ctx, uuid.NewString(), categoryID)

	suite.Require().Error(err)
	suite.Nil(category)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CategoryServiceTestSuite) TestListCategories_FiltersByType() {
	ctx := context.Background()
	userID := uuid.NewString()
	categories := []domain.Category{
		{CategoryID: uuid.NewString(), UserID: userID, Name: "Salary", CategoryType: domain.CategoryIncome},
		{CategoryID: uuid.NewString(), UserID: userID, Name: "Groceries", CategoryType: domain.CategoryExpense},
		{CategoryID: uuid.NewString(), UserID: userID, Name: "Rent", CategoryType: domain.CategoryExpense},
	}

	suite.mockCategoryRepo.On("ListCategoriesByUser", ctx, userID).Return(categories, nil).Twice()

	all, err := suite.service.ListCategories(ctx, userID, nil)
	suite.Require().NoError(err)
	suite.Len(all, 3)

	expense := domain.CategoryExpense
	filtered, err := suite.service.ListCategories(ctx, userID, &expense)
	suite.Require().NoError(err)
	suite.Require().Len(filtered, 2)
	for _, category := range filtered {
		suite.Equal(domain.CategoryExpense, category.CategoryType)
	}
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	categoryID := uuid.NewString()
	existing := &domain.Category{CategoryID: categoryID, UserID: userID, Name: "Old"}
	newName := "Dining Out"

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockCategoryRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(category domain.Category) bool {
		return category.Name == newName && category.LastUpdatedBy == userID
	})).Return(nil).Once()

	category, err := suite.service.UpdateCategory(ctx, userID, categoryID, dto.UpdateCategoryRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, category.Name)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_SystemForbidden() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	system := &domain.Category{CategoryID: categoryID, Name: "Salary", IsSystem: true}
	newName := "Hijacked"

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(system, nil).Once()

	category, err := suite.service.UpdateCategory(ctx, uuid.NewString(), categoryID, dto.UpdateCategoryRequest{Name: &newName})

	suite.Require().Error(err)
	suite.Nil(category)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "UpdateCategory")
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	categoryID := uuid.NewString()
	existing := &domain.Category{CategoryID: categoryID, UserID: userID, Name: "Old"}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockCategoryRepo.On("MarkCategoryDeleted", ctx, categoryID, mock.AnythingOfType("time.Time"), userID).Return(nil).Once()

	err := suite.service.DeleteCategory(ctx, userID, categoryID)

	suite.Require().NoError(err)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_SystemForbidden() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	system := &domain.Category{CategoryID: categoryID, Name: "Salary", IsSystem: true}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).Return(system, nil).Once()

	err := suite.service.DeleteCategory(ctx, uuid.NewString(), categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "MarkCategoryDeleted")
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
