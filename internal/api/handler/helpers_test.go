package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withActor(c echo.Context, actor *domain.Actor) echo.Context {
	c.Set("actor", actor)
	return c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

// fieldErrors asserts err is a field-level validation failure and returns its
// fields.
func fieldErrors(t *testing.T, err error) domain.FieldErrors {
	t.Helper()
	de, ok := domain.AsError(err)
	if !ok || de.Kind != domain.KindValidation || len(de.Fields) == 0 {
		t.Fatalf("expected field validation error, got %v", err)
	}
	return de.Fields
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, identifier, password string) (*ports.LoginResult, error)
	refreshFn  func(ctx context.Context, token string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) CreateAdministrator(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, identifier, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (string, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Actor, error) {
	return nil, domain.ErrInvalidToken
}

type stubAnnouncementService struct {
	listFn      func(ctx context.Context, page int) (*ports.AnnouncementPage, error)
	getFn       func(ctx context.Context, id int64) (*domain.Announcement, error)
	searchFn    func(ctx context.Context, f ports.AnnouncementFilter) ([]*domain.Announcement, error)
	createFn    func(ctx context.Context, actor *domain.Actor, in ports.CreateAnnouncementInput) (*domain.Announcement, error)
	authorizeFn func(ctx context.Context, actor *domain.Actor, action domain.Action, id int64) error
	updateFn    func(ctx context.Context, actor *domain.Actor, id int64, in ports.UpdateAnnouncementInput) (*domain.Announcement, error)
	deleteFn    func(ctx context.Context, actor *domain.Actor, id int64) error
}

func (s *stubAnnouncementService) List(ctx context.Context, page int) (*ports.AnnouncementPage, error) {
	return s.listFn(ctx, page)
}

func (s *stubAnnouncementService) Get(ctx context.Context, id int64) (*domain.Announcement, error) {
	return s.getFn(ctx, id)
}

func (s *stubAnnouncementService) Search(ctx context.Context, f ports.AnnouncementFilter) ([]*domain.Announcement, error) {
	return s.searchFn(ctx, f)
}

func (s *stubAnnouncementService) Create(ctx context.Context, actor *domain.Actor, in ports.CreateAnnouncementInput) (*domain.Announcement, error) {
	return s.createFn(ctx, actor, in)
}

// Authorize allows everything unless authorizeFn is set.
func (s *stubAnnouncementService) Authorize(ctx context.Context, actor *domain.Actor, action domain.Action, id int64) error {
	if s.authorizeFn == nil {
		return nil
	}
	return s.authorizeFn(ctx, actor, action, id)
}

func (s *stubAnnouncementService) Update(ctx context.Context, actor *domain.Actor, id int64, in ports.UpdateAnnouncementInput) (*domain.Announcement, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubAnnouncementService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubUserService struct {
	meFn     func(ctx context.Context, actor *domain.Actor) (*domain.User, error)
	updateFn func(ctx context.Context, actor *domain.Actor, in ports.UpdateUserInput) (*domain.User, error)
	listFn   func(ctx context.Context, actor *domain.Actor) ([]*domain.User, error)
	deleteFn func(ctx context.Context, actor *domain.Actor, id int64) error
}

func (s *stubUserService) Me(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	return s.meFn(ctx, actor)
}

func (s *stubUserService) UpdateMe(ctx context.Context, actor *domain.Actor, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, in)
}

func (s *stubUserService) List(ctx context.Context, actor *domain.Actor) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	return s.deleteFn(ctx, actor, id)
}
