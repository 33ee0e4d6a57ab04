package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/pengaduan/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	in := map[string]string{"email": email, "password": password}

	var resp LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", nil, in, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response without token")
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/register", nil, req, nil)
}

// User fetches the profile of the token owner.
func (c *HTTPClient) User(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/user", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

func (c *HTTPClient) SendVerificationNotification(ctx context.Context) (*VerificationResponse, error) {
	var resp VerificationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/email/verification-notification", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	return c.doJSON(ctx, http.MethodPatch, "/user/update", nil, req, nil)
}

func (c *HTTPClient) Categories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		Data []models.Category `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateComplaint posts the complaint as multipart form data, attachments
// as lampiran[0], lampiran[1], ... The returned complaint is nil when the
// backend does not echo it back.
func (c *HTTPClient) CreateComplaint(ctx context.Context, req ComplaintRequest) (*models.Complaint, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", req.Title},
		{"category_id", req.CategoryID.String()},
		{"location", req.Location},
		{"description", req.Description},
	}
	if !req.UserID.IsZero() {
		fields = append(fields, [2]string{"user_id", req.UserID.String()})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	for i, a := range req.Attachments {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="lampiran[%d]"; filename="%s"`, i, escapeQuotes(a.Name)))
		ct := a.ContentType
		if ct == "" {
			ct = http.DetectContentType(a.Data)
		}
		h.Set("Content-Type", ct)

		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create part %d: %w", i, err)
		}
		if _, err := w.Write(a.Data); err != nil {
			return nil, fmt.Errorf("write part %d: %w", i, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var resp struct {
		Data *models.Complaint `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/complaints", nil, &buf, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) DeleteComplaint(ctx context.Context, id models.ID) error {
	return c.doJSON(ctx, http.MethodDelete, "/complaints/"+url.PathEscape(id.String()), nil, nil, nil)
}

// Get issues GET endpoint?params and decodes the whole JSON body into out.
func (c *HTTPClient) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, params, nil, out)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
