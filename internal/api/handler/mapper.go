package handler

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsStaff:     u.IsStaff(),
	}
}

func toUserResponses(users []*domain.User) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toAnnouncementResponse(a *domain.Announcement) announcementResponse {
	return announcementResponse{
		ID:         a.ID,
		Subject:    a.Subject,
		Content:    a.Content,
		HourlyRate: a.HourlyRate,
		Author:     toUserResponse(a.Author),
		DateAdded:  a.DateAdded,
	}
}

func toAnnouncementResponses(items []*domain.Announcement) []announcementResponse {
	out := make([]announcementResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnnouncementResponse(a))
	}
	return out
}

func toAnnouncementPage(c echo.Context, p *ports.AnnouncementPage) announcementPageResponse {
	resp := announcementPageResponse{
		Count:   p.Total,
		Results: toAnnouncementResponses(p.Items),
	}
	if p.HasNext() {
		next := pageURL(c, p.Page+1)
		resp.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		resp.Previous = &prev
	}
	return resp
}

// pageURL rebuilds the absolute request URL pointing at page. The first page
// is addressed without a page parameter. Other query parameters are kept.
func pageURL(c echo.Context, page int) string {
	req := c.Request()
	q := req.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   c.Scheme(),
		Host:     req.Host,
		Path:     req.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
