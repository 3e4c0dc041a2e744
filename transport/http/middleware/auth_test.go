package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bengkel/config"
	"bengkel/infras/jwt"
	jwtMocks "bengkel/infras/jwt/mocks"
	otelMocks "bengkel/infras/otel/mocks"
	"bengkel/permissions"
	"bengkel/shared"
	"bengkel/shared/constant"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const testAPIKey = "internal-key"

type actorSeen struct {
	userID string
	role   string
	called bool
}

func newProtectedRouter(authRole AuthRole, seen *actorSeen) http.Handler {
	ok := func(w http.ResponseWriter, r *http.Request) {
		seen.called = true
		seen.userID, seen.role = shared.Actor(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	mux := chi.NewRouter()
	mux.Group(func(protected chi.Router) {
		protected.Use(authRole.APIKey)
		protected.Use(authRole.Auth)
		protected.Use(authRole.RBAC)

		protected.Route("/v1", func(r chi.Router) {
			r.Get("/services", ok)
			r.Get("/bookings", ok)
			r.Patch("/withdrawals/{id}/process", ok)
			r.Patch("/verifications/{id}/review", ok)
		})
	})

	return mux
}

func TestAuthRole(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = testAPIKey

	userClaims := &jwt.Claims{UserID: "user-1", Role: constant.RoleUser, Type: jwt.AccessToken}

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		mock       func(m *jwtMocks.MockJWT)
		wantStatus int
		wantActor  actorSeen
	}{
		{
			name:       "public route skips authentication",
			method:     http.MethodGet,
			path:       "/v1/services",
			wantStatus: http.StatusOK,
			wantActor:  actorSeen{called: true},
		},
		{
			name:       "missing authorization header",
			method:     http.MethodGet,
			path:       "/v1/bookings",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header",
			method:     http.MethodGet,
			path:       "/v1/bookings",
			headers:    map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "valid token with allowed role",
			method:  http.MethodGet,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(userClaims, nil)
			},
			wantStatus: http.StatusOK,
			wantActor:  actorSeen{called: true, userID: "user-1", role: constant.RoleUser},
		},
		{
			name:    "valid token with role outside the route permissions",
			method:  http.MethodPatch,
			path:    "/v1/withdrawals/w-1/process",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(userClaims, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "mechanic cannot review verification documents",
			method:  http.MethodPatch,
			path:    "/v1/verifications/v-1/review",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer mechanic"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "mechanic", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "user-2", Role: constant.RoleMechanic, Type: jwt.AccessToken}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "internal api key acts as system",
			method:     http.MethodPatch,
			path:       "/v1/withdrawals/w-1/process",
			headers:    map[string]string{constant.RequestHeaderAPIKey: testAPIKey},
			wantStatus: http.StatusOK,
			wantActor:  actorSeen{called: true, role: constant.RoleSystem},
		},
		{
			name:       "wrong api key",
			method:     http.MethodGet,
			path:       "/v1/bookings",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "nope"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			jwtService := jwtMocks.NewMockJWT(ctrl)
			if tt.mock != nil {
				tt.mock(jwtService)
			}

			var seen actorSeen

			authRole := NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), permissions.Get(), cfg)
			router := newProtectedRouter(authRole, &seen)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActor, seen)
		})
	}
}
