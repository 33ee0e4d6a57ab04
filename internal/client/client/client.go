package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/dmitrijs2005/pengaduan/internal/client/models"
)

// Client is the backend API consumed by the services.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) error
	User(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	SendVerificationNotification(ctx context.Context) (*VerificationResponse, error)
	UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error
	Categories(ctx context.Context) ([]models.Category, error)
	CreateComplaint(ctx context.Context, req ComplaintRequest) (*models.Complaint, error)
	DeleteComplaint(ctx context.Context, id models.ID) error
	Getter
}

// Getter issues GET requests and decodes the JSON response into out.
type Getter interface {
	Get(ctx context.Context, endpoint string, params url.Values, out any) error
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// VerificationResponse is returned by POST /email/verification-notification.
// Status is "success" when the address was already verified, in which case
// User carries the updated profile.
type VerificationResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// User decodes Data when the backend reported success.
func (r *VerificationResponse) User() (*models.User, bool) {
	if r.Status != "success" || len(r.Data) == 0 {
		return nil, false
	}
	var u models.User
	if err := json.Unmarshal(r.Data, &u); err != nil {
		return nil, false
	}
	return &u, true
}

type UpdatePasswordRequest struct {
	CurrentPassword         string `json:"current_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// Upload is one complaint attachment.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

type ComplaintRequest struct {
	Title       string
	CategoryID  models.ID
	Location    string
	Description string
	UserID      models.ID
	Attachments []Upload
}
