package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"bengkel/config"
	"bengkel/infras/otel/mocks"
	catalogMocks "bengkel/internal/domains/catalog/mocks"
	"bengkel/internal/domains/catalog/model"
	"bengkel/internal/domains/catalog/model/dto"
	"bengkel/internal/domains/catalog/service"
	"bengkel/shared"
	cacheMocks "bengkel/shared/cache/mocks"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"
)

func TestCatalogService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := catalogMocks.NewMockService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	svc := service.New(mockRepo, catalogMocks.NewMockCategory(ctrl), cfg, mockCache, mocks.NewOtel())

	oilChange := model.Service{
		ID:        "svc-1",
		Name:      "Oil change",
		BasePrice: decimal.NewNullDecimal(decimal.NewFromInt(150000)),
		IsActive:  true,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
		wantName  string
	}{
		{
			name: "cache miss, found",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "service:get:svc-1", gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(oilChange, nil)
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantName: "Oil change",
		},
		{
			name: "not found",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), "svc-1")

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantName, res.Name)
			assert.True(t, res.BasePrice.Decimal.Equal(decimal.NewFromInt(150000)))
		})
	}
}

func TestCatalogService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := catalogMocks.NewMockService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, catalogMocks.NewMockCategory(ctrl), &config.Config{}, mockCache, mocks.NewOtel())

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Service{{ID: "a"}, {ID: "b"}}, nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Services, 2)
}

type categoryFixture struct {
	repo       *catalogMocks.MockService
	categories *catalogMocks.MockCategory
	cache      *cacheMocks.MockRedisCache
	svc        service.Catalog
}

func newCategoryFixture(t *testing.T) categoryFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := categoryFixture{
		repo:       catalogMocks.NewMockService(ctrl),
		categories: catalogMocks.NewMockCategory(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, f.categories, &config.Config{}, f.cache, mocks.NewOtel())

	return f
}

func adminCtx() context.Context {
	return shared.WithActor(context.Background(), "admin-1", constant.RoleAdmin)
}

func TestCatalogService_GetCategories(t *testing.T) {
	t.Run("cache miss reads active categories by name", func(t *testing.T) {
		f := newCategoryFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.categories.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Category, error) {
				assert.Equal(t, model.CategoryFieldName, params.SortBy)
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)

				_, args := filter.GetWhereClause()
				assert.Equal(t, true, args[model.CategoryFieldIsActive])

				return []model.Category{{ID: "cat-1", Name: "Engine", IsActive: true}}, nil
			})
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.GetCategories(context.Background())

		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "Engine", res[0].Name)
	})

	t.Run("cache hit", func(t *testing.T) {
		f := newCategoryFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.GetCategories(context.Background())

		assert.NoError(t, err)
	})
}

func TestCatalogService_GetCategory(t *testing.T) {
	t.Run("includes active services", func(t *testing.T) {
		f := newCategoryFixture(t)

		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{ID: "cat-1", Name: "Engine"}, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Service, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "cat-1", args[model.FieldCategoryID])

				return []model.Service{{ID: "svc-1", CategoryID: "cat-1", Name: "Oil change"}}, nil
			})

		res, err := f.svc.GetCategory(context.Background(), "cat-1")

		assert.NoError(t, err)
		assert.Equal(t, "Engine", res.Name)
		assert.Len(t, res.Services, 1)
	})

	t.Run("not found", func(t *testing.T) {
		f := newCategoryFixture(t)

		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{}, nil)

		_, err := f.svc.GetCategory(context.Background(), "cat-x")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestCatalogService_CreateCategory(t *testing.T) {
	req := dto.CreateCategoryRequest{Name: "Electrical"}

	t.Run("creates an active category and drops the cached list", func(t *testing.T) {
		f := newCategoryFixture(t)

		f.categories.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, category model.Category) error {
				assert.NotEmpty(t, category.ID)
				assert.True(t, category.IsActive)
				assert.Equal(t, "admin-1", category.CreatedBy)

				return nil
			})
		f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.CreateCategory(adminCtx(), req)

		assert.NoError(t, err)
		assert.Equal(t, "Electrical", res.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newCategoryFixture(t)

		f.categories.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(failure.Conflict("service_category already exists"))

		_, err := f.svc.CreateCategory(adminCtx(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestCatalogService_UpdateCategory(t *testing.T) {
	t.Run("writes only the provided fields", func(t *testing.T) {
		f := newCategoryFixture(t)
		inactive := false

		gomock.InOrder(
			f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{ID: "cat-1", Name: "Engine", IsActive: true}, nil),
			f.categories.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, &inactive, fields[model.CategoryFieldIsActive])
					assert.NotContains(t, fields, model.CategoryFieldName)
					assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

					return nil
				}),
			f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{ID: "cat-1", Name: "Engine"}, nil),
		)
		f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.UpdateCategory(adminCtx(), "cat-1", dto.UpdateCategoryRequest{IsActive: &inactive})

		assert.NoError(t, err)
		assert.False(t, res.IsActive)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newCategoryFixture(t)

		_, err := f.svc.UpdateCategory(adminCtx(), "cat-1", dto.UpdateCategoryRequest{})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newCategoryFixture(t)
		name := "Body"

		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{}, nil)

		_, err := f.svc.UpdateCategory(adminCtx(), "cat-x", dto.UpdateCategoryRequest{Name: &name})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
