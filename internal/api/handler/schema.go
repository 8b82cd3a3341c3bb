package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

const (
	msgRequired  = "This field is required."
	msgNull      = "This field may not be null."
	msgBlank     = "This field may not be blank."
	msgNotString = "Not a valid string."
)

// stringField is an optional string that remembers whether it was sent and
// whether it was null, which a *string cannot tell apart.
type stringField struct {
	value   string
	set     bool
	null    bool
	invalid bool
}

func (s *stringField) UnmarshalJSON(b []byte) error {
	s.set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		s.null = true
		return nil
	}
	if err := json.Unmarshal(b, &s.value); err != nil {
		s.invalid = true
	}
	return nil
}

// parse returns nil when the field was not sent. A null, non-string, blank or
// overlong value records a field error under name and also returns nil.
func (s *stringField) parse(fe domain.FieldErrors, name string, maxLen int) *string {
	switch {
	case !s.set:
		return nil
	case s.null:
		fe.Add(name, msgNull)
	case s.invalid:
		fe.Add(name, msgNotString)
	case strings.TrimSpace(s.value) == "":
		fe.Add(name, msgBlank)
	case maxLen > 0 && utf8.RuneCountInString(s.value) > maxLen:
		fe.Add(name, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen))
	default:
		v := s.value
		return &v
	}
	return nil
}

// decimalField accepts a rate as a JSON number or string. Decoding never
// fails, so a bad value is reported against its field by Check instead of as
// a malformed body.
type decimalField struct {
	raw  string
	set  bool
	null bool
}

func (d *decimalField) UnmarshalJSON(b []byte) error {
	d.set = true
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		d.null = true
	case len(b) > 0 && b[0] == '"':
		s, err := strconv.Unquote(string(b))
		if err != nil {
			s = string(b)
		}
		d.raw = s
	default:
		d.raw = string(b)
	}
	return nil
}

// parse records a field error under name and reports false when the value is
// missing or invalid.
func (d *decimalField) parse(fe domain.FieldErrors, name string) (domain.Rate, bool) {
	if d.null {
		fe.Add(name, msgNull)
		return 0, false
	}
	r, err := domain.ParseRate(d.raw)
	if err != nil {
		fe.Add(name, err.Error())
		return 0, false
	}
	return r, true
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type registerRequest struct {
	Username    string `json:"username"     validate:"required,max=150,username"`
	Email       string `json:"email"        validate:"required,email,max=254"`
	Password    string `json:"password"     validate:"required"`
	FirstName   string `json:"first_name"   validate:"required,max=150"`
	LastName    string `json:"last_name"    validate:"required,max=150"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=15"`
}

// loginRequest takes the account username; an email is accepted in either
// field.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

type loginResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
	UserID  int64  `json:"user_id"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// ── Announcements ─────────────────────────────────────────────────────────────

type createAnnouncementRequest struct {
	Subject    string       `json:"subject" validate:"required,notblank,max=255"`
	Content    string       `json:"content" validate:"required,notblank"`
	HourlyRate decimalField `json:"hourly_rate"`

	rate domain.Rate
}

func (r *createAnnouncementRequest) Check(fe domain.FieldErrors) {
	if !r.HourlyRate.set {
		fe.Add("hourly_rate", msgRequired)
		return
	}
	if rate, ok := r.HourlyRate.parse(fe, "hourly_rate"); ok {
		r.rate = rate
	}
}

// updateAnnouncementRequest is a partial update; absent fields stay as they are.
type updateAnnouncementRequest struct {
	Subject    stringField  `json:"subject"`
	Content    stringField  `json:"content"`
	HourlyRate decimalField `json:"hourly_rate"`

	subject *string
	content *string
	rate    *domain.Rate
}

func (r *updateAnnouncementRequest) Check(fe domain.FieldErrors) {
	r.subject = r.Subject.parse(fe, "subject", domain.MaxSubjectLength)
	r.content = r.Content.parse(fe, "content", 0)
	if !r.HourlyRate.set {
		return
	}
	if rate, ok := r.HourlyRate.parse(fe, "hourly_rate"); ok {
		r.rate = &rate
	}
}

type announcementResponse struct {
	ID         int64         `json:"id"`
	Subject    string        `json:"subject"`
	Content    string        `json:"content"`
	HourlyRate domain.Rate   `json:"hourly_rate"`
	Author     *userResponse `json:"author"`
	DateAdded  time.Time     `json:"date_added"`
}

type announcementPageResponse struct {
	Count    int64                  `json:"count"`
	Next     *string                `json:"next"`
	Previous *string                `json:"previous"`
	Results  []announcementResponse `json:"results"`
}

// ── Users ─────────────────────────────────────────────────────────────────────

type userResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	IsStaff     bool   `json:"is_staff"`
}

// updateUserRequest is a partial profile update. The role is not writable
// through this request.
type updateUserRequest struct {
	Username    *string `json:"username"     validate:"omitnil,notblank,max=150,username"`
	Email       *string `json:"email"        validate:"omitnil,notblank,email,max=254"`
	Password    *string `json:"password"     validate:"omitnil,notblank"`
	FirstName   *string `json:"first_name"   validate:"omitnil,max=150"`
	LastName    *string `json:"last_name"    validate:"omitnil,max=150"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,max=15"`
}

var (
	_ json.Unmarshaler = (*decimalField)(nil)
	_ json.Unmarshaler = (*stringField)(nil)
)
