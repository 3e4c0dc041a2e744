//go:build wireinject
// +build wireinject

package di

import (
	"bengkel/config"
	"bengkel/infras/jwt"
	"bengkel/infras/kafka"
	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/infras/redis"
	"bengkel/internal/workers/payment"
	"bengkel/permissions"
	"bengkel/shared/cache"
	"bengkel/shared/event"
	"bengkel/shared/transaction"
	"bengkel/transport/http"
	"bengkel/transport/http/middleware"
	"bengkel/transport/http/router"

	bookingRepository "bengkel/internal/domains/booking/repository"
	bookingService "bengkel/internal/domains/booking/service"
	catalogRepository "bengkel/internal/domains/catalog/repository"
	catalogService "bengkel/internal/domains/catalog/service"
	locationRepository "bengkel/internal/domains/location/repository"
	locationService "bengkel/internal/domains/location/service"
	matchmakingService "bengkel/internal/domains/matchmaking/service"
	mechanicRepository "bengkel/internal/domains/mechanic/repository"
	mechanicService "bengkel/internal/domains/mechanic/service"
	offerRepository "bengkel/internal/domains/offer/repository"
	offerService "bengkel/internal/domains/offer/service"
	reviewRepository "bengkel/internal/domains/review/repository"
	reviewService "bengkel/internal/domains/review/service"
	transactionRepository "bengkel/internal/domains/transaction/repository"
	transactionService "bengkel/internal/domains/transaction/service"
	verificationRepository "bengkel/internal/domains/verification/repository"
	verificationService "bengkel/internal/domains/verification/service"
	walletRepository "bengkel/internal/domains/wallet/repository"
	walletService "bengkel/internal/domains/wallet/service"
	withdrawalRepository "bengkel/internal/domains/withdrawal/repository"
	withdrawalService "bengkel/internal/domains/withdrawal/service"
	workshopRepository "bengkel/internal/domains/workshop/repository"
	workshopService "bengkel/internal/domains/workshop/service"

	bookingHandler "bengkel/internal/handlers/booking"
	catalogHandler "bengkel/internal/handlers/catalog"
	locationHandler "bengkel/internal/handlers/location"
	matchmakingHandler "bengkel/internal/handlers/matchmaking"
	mechanicHandler "bengkel/internal/handlers/mechanic"
	offerHandler "bengkel/internal/handlers/offer"
	paymentHandler "bengkel/internal/handlers/payment"
	reviewHandler "bengkel/internal/handlers/review"
	verificationHandler "bengkel/internal/handlers/verification"
	walletHandler "bengkel/internal/handlers/wallet"
	withdrawalHandler "bengkel/internal/handlers/withdrawal"
	workshopHandler "bengkel/internal/handlers/workshop"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	event.NewPublisher,
	transaction.New,
)

var catalogDomain = wire.NewSet(
	catalogRepository.New,
	catalogRepository.NewCategory,
	catalogService.New,
)

var workshopDomain = wire.NewSet(
	workshopRepository.New,
	workshopRepository.NewListing,
	workshopService.New,
)

var mechanicDomain = wire.NewSet(
	mechanicRepository.New,
	mechanicRepository.NewListing,
	mechanicService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewHistory,
	bookingService.New,
)

var walletDomain = wire.NewSet(
	walletRepository.New,
	walletRepository.NewEntry,
	walletService.New,
)

var transactionDomain = wire.NewSet(
	transactionRepository.New,
	transactionService.New,
)

var offerDomain = wire.NewSet(
	offerRepository.New,
	offerService.New,
)

var matchmakingDomain = wire.NewSet(
	matchmakingService.New,
)

var withdrawalDomain = wire.NewSet(
	withdrawalRepository.New,
	withdrawalService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var verificationDomain = wire.NewSet(
	verificationRepository.New,
	verificationService.New,
)

var locationDomain = wire.NewSet(
	locationRepository.New,
	locationService.New,
)

var domains = wire.NewSet(
	catalogDomain,
	workshopDomain,
	mechanicDomain,
	bookingDomain,
	walletDomain,
	transactionDomain,
	offerDomain,
	matchmakingDomain,
	withdrawalDomain,
	reviewDomain,
	verificationDomain,
	locationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	catalogHandler.New,
	workshopHandler.New,
	bookingHandler.New,
	offerHandler.New,
	matchmakingHandler.New,
	paymentHandler.New,
	mechanicHandler.New,
	verificationHandler.New,
	locationHandler.New,
	reviewHandler.New,
	walletHandler.New,
	withdrawalHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func()) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return nil, nil
}

func InitializeWorker() (*payment.Consumer, func()) {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		sharedHelpers,
		catalogRepository.New,
		workshopRepository.New,
		mechanicRepository.New,
		bookingDomain,
		walletDomain,
		transactionDomain,
		payment.New,
	)

	return nil, nil
}
