package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

var standard = &domain.Actor{ID: 1, Role: domain.RoleStandard}

func sampleAnnouncement(id int64) *domain.Announcement {
	return &domain.Announcement{
		ID:         id,
		Subject:    "Algebra",
		Content:    "Evening lessons",
		HourlyRate: domain.NewRate(50, 0),
		AuthorID:   1,
		Author:     &domain.User{ID: 1, Username: "alice"},
		DateAdded:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestAnnouncementHandler_List_Pagination(t *testing.T) {
	stub := &stubAnnouncementService{
		listFn: func(ctx context.Context, page int) (*ports.AnnouncementPage, error) {
			if page != 2 {
				t.Fatalf("expected page 2, got %d", page)
			}
			return &ports.AnnouncementPage{
				Items:    []*domain.Announcement{sampleAnnouncement(5)},
				Total:    25,
				Page:     2,
				PageSize: 10,
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/announcements/?page=2", "")
	if err := NewAnnouncementHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Count    int64            `json:"count"`
		Next     *string          `json:"next"`
		Previous *string          `json:"previous"`
		Results  []map[string]any `json:"results"`
	}
	decode(t, rec, &resp)

	if resp.Count != 25 || len(resp.Results) != 1 {
		t.Fatalf("unexpected page: %+v", resp)
	}
	if resp.Next == nil || *resp.Next != "http://example.com/announcements/?page=3" {
		t.Errorf("next = %v", resp.Next)
	}
	if resp.Previous == nil || *resp.Previous != "http://example.com/announcements/" {
		t.Errorf("previous = %v", resp.Previous)
	}
	if got := resp.Results[0]["hourly_rate"]; got != "50.00" {
		t.Errorf("hourly_rate = %v", got)
	}
	author, _ := resp.Results[0]["author"].(map[string]any)
	if author["username"] != "alice" {
		t.Errorf("author = %v", resp.Results[0]["author"])
	}
}

func TestAnnouncementHandler_List_BadPage(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc"} {
		c, _ := newContext(http.MethodGet, "/announcements/?page="+raw, "")
		fields := fieldErrors(t, NewAnnouncementHandler(&stubAnnouncementService{}).List(c))
		if len(fields["page"]) == 0 {
			t.Errorf("page=%s: expected page error, got %v", raw, fields)
		}
	}
}

func TestAnnouncementHandler_Get_InvalidID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/announcements/x/", "")
	c.SetParamNames("id")
	c.SetParamValues("x")

	err := NewAnnouncementHandler(&stubAnnouncementService{}).Get(c)
	if !errors.Is(err, domain.ErrAnnouncementNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnnouncementHandler_Search_Bounds(t *testing.T) {
	stub := &stubAnnouncementService{
		searchFn: func(ctx context.Context, f ports.AnnouncementFilter) ([]*domain.Announcement, error) {
			if f.Subject != "alg" {
				t.Errorf("subject = %q", f.Subject)
			}
			if f.MinRate == nil || *f.MinRate != domain.NewRate(10, 1) {
				t.Errorf("min rate = %v", f.MinRate)
			}
			if f.MaxRate != nil {
				t.Errorf("max rate should be unset, got %v", f.MaxRate)
			}
			return []*domain.Announcement{sampleAnnouncement(1)}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/announcements/search/?subject=alg&min_rate=10.001", "")
	if err := NewAnnouncementHandler(stub).Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []map[string]any
	decode(t, rec, &resp)
	if len(resp) != 1 {
		t.Fatalf("expected one result, got %d", len(resp))
	}

	c, _ = newContext(http.MethodGet, "/announcements/search/?max_rate=cheap", "")
	if fields := fieldErrors(t, NewAnnouncementHandler(stub).Search(c)); len(fields["max_rate"]) == 0 {
		t.Fatalf("expected max_rate error, got %v", fields)
	}
}

func TestAnnouncementHandler_Create(t *testing.T) {
	stub := &stubAnnouncementService{
		createFn: func(ctx context.Context, actor *domain.Actor, in ports.CreateAnnouncementInput) (*domain.Announcement, error) {
			if actor != standard {
				t.Fatalf("unexpected actor %+v", actor)
			}
			if in.HourlyRate != domain.NewRate(42, 50) {
				t.Fatalf("rate = %v", in.HourlyRate)
			}
			a := sampleAnnouncement(9)
			a.HourlyRate = in.HourlyRate
			return a, nil
		},
	}
	h := NewAnnouncementHandler(stub)

	for _, body := range []string{
		`{"subject":"Algebra","content":"Evening lessons","hourly_rate":42.5}`,
		`{"subject":"Algebra","content":"Evening lessons","hourly_rate":"42.50","author":99}`,
	} {
		c, rec := newContext(http.MethodPost, "/announcements/add/", body)
		if err := h.Create(withActor(c, standard)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp map[string]any
		decode(t, rec, &resp)
		if rec.Code != http.StatusCreated || resp["hourly_rate"] != "42.50" {
			t.Fatalf("unexpected response %d: %v", rec.Code, resp)
		}
	}
}

func TestAnnouncementHandler_Create_FieldErrors(t *testing.T) {
	h := NewAnnouncementHandler(&stubAnnouncementService{})

	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"missing rate", `{"subject":"s","content":"c"}`, "hourly_rate", "This field is required."},
		{"null rate", `{"subject":"s","content":"c","hourly_rate":null}`, "hourly_rate", "This field may not be null."},
		{"negative rate", `{"subject":"s","content":"c","hourly_rate":"-1"}`, "hourly_rate", string(domain.ErrRateNegative)},
		{"precision", `{"subject":"s","content":"c","hourly_rate":"1.005"}`, "hourly_rate", string(domain.ErrRatePrecision)},
		{"blank subject", `{"subject":"  ","content":"c","hourly_rate":1}`, "subject", "This field may not be blank."},
		{"missing content", `{"subject":"s","hourly_rate":1}`, "content", "This field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/announcements/add/", tt.body)
			fields := fieldErrors(t, h.Create(withActor(c, standard)))
			if got := fields[tt.field]; len(got) == 0 || got[0] != tt.msg {
				t.Fatalf("%s: got %v", tt.field, fields)
			}
		})
	}
}

func TestAnnouncementHandler_Create_Anonymous(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/announcements/add/", `{"subject":"s","content":"c","hourly_rate":1}`)
	if err := NewAnnouncementHandler(&stubAnnouncementService{}).Create(c); err == nil {
		t.Fatal("expected error for anonymous caller")
	}
}

func TestAnnouncementHandler_Update_Partial(t *testing.T) {
	stub := &stubAnnouncementService{
		updateFn: func(ctx context.Context, actor *domain.Actor, id int64, in ports.UpdateAnnouncementInput) (*domain.Announcement, error) {
			if id != 4 {
				t.Fatalf("id = %d", id)
			}
			if in.Subject != nil || in.Content != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			if in.HourlyRate == nil || *in.HourlyRate != domain.NewRate(60, 0) {
				t.Fatalf("rate = %v", in.HourlyRate)
			}
			return sampleAnnouncement(id), nil
		},
	}
	c, rec := newContext(http.MethodPut, "/announcements/edit/4/", `{"hourly_rate":"60"}`)
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := NewAnnouncementHandler(stub).Update(withActor(c, standard)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAnnouncementHandler_Update_AccessBeforeBody(t *testing.T) {
	stub := &stubAnnouncementService{
		authorizeFn: func(ctx context.Context, actor *domain.Actor, action domain.Action, id int64) error {
			if action != domain.ActionWrite {
				t.Fatalf("action = %s", action)
			}
			if id == 999 {
				return domain.ErrAnnouncementNotFound
			}
			return domain.ErrUnauthorized
		},
		updateFn: func(context.Context, *domain.Actor, int64, ports.UpdateAnnouncementInput) (*domain.Announcement, error) {
			t.Fatal("update must not run")
			return nil, nil
		},
	}
	h := NewAnnouncementHandler(stub)

	tests := []struct {
		id   string
		body string
		want error
	}{
		{"999", `{"hourly_rate":"abc"}`, domain.ErrAnnouncementNotFound},
		{"999", `not-json`, domain.ErrAnnouncementNotFound},
		{"4", `{"hourly_rate":"abc"}`, domain.ErrUnauthorized},
		{"4", `{"subject":null}`, domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		c, _ := newContext(http.MethodPut, "/announcements/edit/"+tt.id+"/", tt.body)
		c.SetParamNames("id")
		c.SetParamValues(tt.id)
		if err := h.Update(withActor(c, standard)); !errors.Is(err, tt.want) {
			t.Errorf("id %s body %s: expected %v, got %v", tt.id, tt.body, tt.want, err)
		}
	}
}

func TestAnnouncementHandler_Update_FieldErrors(t *testing.T) {
	h := NewAnnouncementHandler(&stubAnnouncementService{})

	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"null subject", `{"subject":null}`, "subject", "This field may not be null."},
		{"null content", `{"content":null}`, "content", "This field may not be null."},
		{"blank subject", `{"subject":" "}`, "subject", "This field may not be blank."},
		{"numeric content", `{"content":12}`, "content", "Not a valid string."},
		{"long subject", `{"subject":"` + strings.Repeat("x", domain.MaxSubjectLength+1) + `"}`, "subject", "Ensure this field has no more than 255 characters."},
		{"bad rate", `{"hourly_rate":"abc"}`, "hourly_rate", string(domain.ErrRateInvalid)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPut, "/announcements/edit/4/", tt.body)
			c.SetParamNames("id")
			c.SetParamValues("4")
			fields := fieldErrors(t, h.Update(withActor(c, standard)))
			if got := fields[tt.field]; len(got) == 0 || got[0] != tt.msg {
				t.Fatalf("%s: got %v", tt.field, fields)
			}
		})
	}
}

func TestAnnouncementHandler_Delete(t *testing.T) {
	stub := &stubAnnouncementService{
		deleteFn: func(ctx context.Context, actor *domain.Actor, id int64) error {
			if id == 2 {
				return domain.ErrUnauthorized
			}
			return nil
		},
	}
	h := NewAnnouncementHandler(stub)

	c, rec := newContext(http.MethodDelete, "/announcements/delete/1/", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(withActor(c, standard)); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d %v", rec.Code, err)
	}

	c, _ = newContext(http.MethodDelete, "/announcements/delete/2/", "")
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.Delete(withActor(c, standard)); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
