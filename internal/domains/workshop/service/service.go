package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	catalogModel "bengkel/internal/domains/catalog/model"
	catalogRepo "bengkel/internal/domains/catalog/repository"
	"bengkel/internal/domains/workshop/model"
	"bengkel/internal/domains/workshop/model/dto"
	"bengkel/internal/domains/workshop/repository"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"

	"github.com/rs/zerolog/log"
)

type Profile interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetWorkshopsResponse, error)
	Get(ctx context.Context, id string) (dto.WorkshopDetailResponse, error)
	// UpdateProfile edits the workshop owned by the calling user.
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (dto.WorkshopResponse, error)
	AddListing(ctx context.Context, req dto.AddListingRequest) (dto.ListingResponse, error)
	RemoveListing(ctx context.Context, serviceID string) error
}

type serviceImpl struct {
	repo        repository.Workshop
	listingRepo repository.Listing
	catalogRepo catalogRepo.Service
	otel        otel.Otel
}

func New(repo repository.Workshop, listingRepo repository.Listing, catalogRepo catalogRepo.Service, otel otel.Otel) Profile {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		catalogRepo: catalogRepo,
		otel:        otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetWorkshopsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workshop.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req = model.Sortable.Apply(req)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count workshops")

		return res, fmt.Errorf("failed to count workshops: %w", err)
	}

	workshops, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get workshops")

		return res, fmt.Errorf("failed to get workshops: %w", err)
	}

	res.FromModels(workshops, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WorkshopDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workshop.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	workshop, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get workshop")

		return res, fmt.Errorf("failed to get workshop: %w", err)
	}

	if workshop.ID == constant.Empty {
		return res, failure.NotFound("workshop not found") //nolint:wrapcheck
	}

	listings, err := s.listingRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByID(workshop.ID, model.ListingFieldWorkshopID, model.ListingTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get workshop services")

		return res, fmt.Errorf("failed to get workshop services: %w", err)
	}

	res.FromModel(workshop)

	res.Services = make([]dto.ListingResponse, len(listings))
	for i, listing := range listings {
		res.Services[i].FromModel(listing)
	}

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (res dto.WorkshopResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workshop.UpdateProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateProfileRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return res, failure.BadRequestFromString("latitude and longitude must be updated together") //nolint:wrapcheck
	}

	workshop, err := s.mine(ctx)
	if err != nil {
		return res, err
	}

	start, end := req.OperatingHoursStart, req.OperatingHoursEnd
	if start == constant.Empty && workshop.OperatingHoursStart != nil {
		start = *workshop.OperatingHoursStart
	}

	if end == constant.Empty && workshop.OperatingHoursEnd != nil {
		end = *workshop.OperatingHoursEnd
	}

	// HH:MM compares lexically.
	if start != constant.Empty && end != constant.Empty && start >= end {
		return res, failure.BadRequestFromString("operating hours must start before they end") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	filter := shared.FilterByID(workshop.ID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update workshop")

		return res, fmt.Errorf("failed to update workshop: %w", err)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get workshop")

		return res, fmt.Errorf("failed to get workshop: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) AddListing(ctx context.Context, req dto.AddListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workshop.AddListing")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !req.Price.IsPositive() {
		return res, failure.BadRequestFromString("price must be greater than zero") //nolint:wrapcheck
	}

	workshop, err := s.mine(ctx)
	if err != nil {
		return res, err
	}

	exist, err := s.catalogRepo.Exist(ctx, shared.FilterByID(req.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if service exists")

		return res, fmt.Errorf("failed to check if service exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("service not found") //nolint:wrapcheck
	}

	filter := listingFilter(workshop.ID, req.ServiceID)

	exist, err = s.listingRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if workshop service exists")

		return res, fmt.Errorf("failed to check if workshop service exists: %w", err)
	}

	if exist {
		return res, failure.Conflict("service already added to workshop") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	listing := req.ToModel(workshop.ID, user)

	if err = s.listingRepo.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Msg("failed to add workshop service")

		return res, fmt.Errorf("failed to add workshop service: %w", err)
	}

	res.FromModel(listing)

	return res, nil
}

func (s *serviceImpl) RemoveListing(ctx context.Context, serviceID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workshop.RemoveListing")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	workshop, err := s.mine(ctx)
	if err != nil {
		return err
	}

	filter := listingFilter(workshop.ID, serviceID)

	exist, err := s.listingRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if workshop service exists")

		return fmt.Errorf("failed to check if workshop service exists: %w", err)
	}

	if !exist {
		return failure.NotFound("workshop service not found") //nolint:wrapcheck
	}

	if err = s.listingRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to remove workshop service")

		return fmt.Errorf("failed to remove workshop service: %w", err)
	}

	return nil
}

// mine loads the workshop owned by the calling user.
func (s *serviceImpl) mine(ctx context.Context) (model.Workshop, error) {
	user, _ := shared.Actor(ctx)

	workshop, err := s.repo.Get(ctx, shared.FilterByID(user, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get workshop profile")

		return workshop, fmt.Errorf("failed to get workshop profile: %w", err)
	}

	if workshop.ID == constant.Empty {
		return workshop, failure.NotFound("workshop profile not found") //nolint:wrapcheck
	}

	return workshop, nil
}

func listingFilter(workshopID, serviceID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.ListingFieldWorkshopID, Value: workshopID, Operator: gDto.FilterOperatorEq, Table: model.ListingTableName},
			gDto.Filter{Field: model.ListingFieldServiceID, Value: serviceID, Operator: gDto.FilterOperatorEq, Table: model.ListingTableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}
