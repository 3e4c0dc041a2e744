package router

import (
	"bengkel/internal/handlers/booking"
	"bengkel/internal/handlers/catalog"
	"bengkel/internal/handlers/location"
	"bengkel/internal/handlers/matchmaking"
	"bengkel/internal/handlers/mechanic"
	"bengkel/internal/handlers/offer"
	"bengkel/internal/handlers/payment"
	"bengkel/internal/handlers/review"
	"bengkel/internal/handlers/verification"
	"bengkel/internal/handlers/wallet"
	"bengkel/internal/handlers/withdrawal"
	"bengkel/internal/handlers/workshop"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Catalog      catalog.Handler
	Workshop     workshop.Handler
	Booking      booking.Handler
	Offer        offer.Handler
	Matchmaking  matchmaking.Handler
	Payment      payment.Handler
	Mechanic     mechanic.Handler
	Verification verification.Handler
	Location     location.Handler
	Review       review.Handler
	Wallet       wallet.Handler
	Withdrawal   withdrawal.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Workshop.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Offer.Router(routerGroup)
		r.DomainHandlers.Matchmaking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Mechanic.Router(routerGroup)
		r.DomainHandlers.Verification.Router(routerGroup)
		r.DomainHandlers.Location.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.Wallet.Router(routerGroup)
		r.DomainHandlers.Withdrawal.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
