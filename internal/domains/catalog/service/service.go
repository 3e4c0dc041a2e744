package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"

	"bengkel/config"
	"bengkel/infras/otel"
	"bengkel/internal/domains/catalog/model"
	"bengkel/internal/domains/catalog/model/dto"
	"bengkel/internal/domains/catalog/repository"
	"bengkel/shared"
	"bengkel/shared/cache"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetService        = "service:get"
	cacheGetAllService     = "service:gets"
	cacheGetAllCategory    = "category:gets"
	categoryCacheKeyActive = "active"
)

type Catalog interface {
	Get(ctx context.Context, id string) (dto.ServiceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetServicesResponse, error)

	// GetCategories lists the active categories by name.
	GetCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id string) (dto.CategoryDetailResponse, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
}

type serviceImpl struct {
	repo         repository.Service
	categoryRepo repository.Category
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Service, categoryRepo repository.Category, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Catalog {
	return &serviceImpl{
		repo:         repo,
		categoryRepo: categoryRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetService, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service")

		return res, nil
	}

	svc, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return res, failure.NotFound("service not found") //nolint:wrapcheck
	}

	res.FromModel(svc)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req = model.Sortable.Apply(req)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllService, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for services")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetCategories(ctx context.Context) (res []dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.GetCategories")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetAllCategory, categoryCacheKeyActive)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for categories")

		return res, nil
	}

	categories, err := s.categoryRepo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: model.CategoryFieldName, SortDir: gDto.SortDirAsc},
		gDto.FilterGroup{Filters: []any{
			gDto.Filter{Field: model.CategoryFieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.CategoryTableName},
		}},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	res = make([]dto.CategoryResponse, len(categories))
	for i, category := range categories {
		res[i].FromModel(category)
	}

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save categories to cache")
	}

	return res, nil
}

func (s *serviceImpl) GetCategory(ctx context.Context, id string) (res dto.CategoryDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.GetCategory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	category, err := s.category(ctx, id)
	if err != nil {
		return res, err
	}

	services, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldCategoryID, Value: category.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get category services")

		return res, fmt.Errorf("failed to get category services: %w", err)
	}

	res.FromModel(category)

	res.Services = make([]dto.ServiceResponse, len(services))
	for i, svc := range services {
		res.Services[i].FromModel(svc)
	}

	return res, nil
}

func (s *serviceImpl) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.CreateCategory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)
	category := req.ToModel(user)

	if err = s.categoryRepo.Insert(ctx, category); err != nil {
		if failure.GetCode(err) == http.StatusConflict {
			return res, failure.Conflict("category name already exists") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create category")

		return res, fmt.Errorf("failed to create category: %w", err)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllCategory)

	res.FromModel(category)

	return res, nil
}

func (s *serviceImpl) UpdateCategory(ctx context.Context, id string, req dto.UpdateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.UpdateCategory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateCategoryRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	if _, err = s.category(ctx, id); err != nil {
		return res, err
	}

	user, _ := shared.Actor(ctx)

	err = s.categoryRepo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName))
	if err != nil {
		if failure.GetCode(err) == http.StatusConflict {
			return res, failure.Conflict("category name already exists") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update category")

		return res, fmt.Errorf("failed to update category: %w", err)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllCategory)

	category, err := s.category(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(category)

	return res, nil
}

func (s *serviceImpl) category(ctx context.Context, id string) (model.Category, error) {
	category, err := s.categoryRepo.Get(ctx, shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get category")

		return category, fmt.Errorf("failed to get category: %w", err)
	}

	if category.ID == constant.Empty {
		return category, failure.NotFound("category not found") //nolint:wrapcheck
	}

	return category, nil
}
