package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

type stubResolver struct {
	actors map[string]*domain.Actor
	err    error
}

func (s *stubResolver) Authenticate(_ context.Context, token string) (*domain.Actor, error) {
	if s.err != nil {
		return nil, s.err
	}
	actor, ok := s.actors[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return actor, nil
}

func runAuth(t *testing.T, resolver ActorResolver, header string) (*httptest.ResponseRecorder, *domain.Actor, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *domain.Actor
	called := false
	handler := Auth(resolver)(func(c echo.Context) error {
		called = true
		got = ActorFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, got, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	alice := &domain.Actor{ID: 1, Role: domain.RoleStandard}
	rec, got, called := runAuth(t, &stubResolver{actors: map[string]*domain.Actor{"good": alice}}, "Bearer good")

	if !called {
		t.Fatal("next not called")
	}
	if got != alice {
		t.Fatalf("actor not set: %+v", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"empty token", "Bearer "},
		{"unknown token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := runAuth(t, &stubResolver{}, tt.header)
			if called {
				t.Fatal("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_ResolverFailureIsNotAuthError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	c := e.NewContext(req, httptest.NewRecorder())

	boom := errors.New("store down")
	err := Auth(&stubResolver{err: boom})(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestActorFromContext_Anonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if ActorFromContext(c) != nil {
		t.Fatal("expected nil actor for anonymous request")
	}
}
