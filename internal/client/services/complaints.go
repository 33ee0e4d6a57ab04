package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/forms"
	"github.com/dmitrijs2005/pengaduan/internal/client/models"
	"github.com/dmitrijs2005/pengaduan/internal/client/refresh"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

// MaxAttachmentSize is the largest file accepted as a complaint attachment.
const MaxAttachmentSize = 10 << 20

// FallbackCategories are offered when the backend has none or cannot be
// reached.
var FallbackCategories = []models.Category{
	{ID: "1", Name: "Layanan"},
	{ID: "2", Name: "Fasilitas"},
	{ID: "3", Name: "Staf/Pegawai"},
	{ID: "4", Name: "Aplikasi/Website"},
	{ID: "5", Name: "Lainnya"},
}

type ComplaintService interface {
	Categories(ctx context.Context) ([]models.Category, bool)
	Submit(ctx context.Context, in ComplaintInput) (*models.Complaint, error)
	Delete(ctx context.Context, id models.ID) error
}

// ComplaintInput is a new complaint as entered by the user.
type ComplaintInput struct {
	forms.Complaint
	UserID      models.ID
	Attachments []client.Upload
}

// Complaints submits and withdraws complaints. Every successful change
// bumps the refresh epoch so complaint lists and stats reload.
type Complaints struct {
	api    client.Client
	epochs *refresh.Broadcaster
	log    logging.Logger
}

var _ ComplaintService = (*Complaints)(nil)

func NewComplaints(api client.Client, epochs *refresh.Broadcaster, log logging.Logger) *Complaints {
	return &Complaints{api: api, epochs: epochs, log: log.With("component", "complaints")}
}

// Categories returns the backend categories, or FallbackCategories with
// fallback=true when there are none.
func (c *Complaints) Categories(ctx context.Context) (cats []models.Category, fallback bool) {
	cats, err := c.api.Categories(ctx)
	if err != nil {
		c.log.Error(ctx, "error fetching categories", "error", err)
	}
	if err != nil || len(cats) == 0 {
		return append([]models.Category(nil), FallbackCategories...), true
	}
	return cats, false
}

func (c *Complaints) Submit(ctx context.Context, in ComplaintInput) (*models.Complaint, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	for _, a := range in.Attachments {
		if len(a.Data) > MaxAttachmentSize {
			return nil, &forms.ValidationError{Fields: map[string]string{
				"lampiran": fmt.Sprintf("Maksimal ukuran file adalah 10MB (%s)", a.Name),
			}}
		}
	}

	created, err := c.api.CreateComplaint(ctx, client.ComplaintRequest{
		Title:       in.Title,
		CategoryID:  models.ID(in.CategoryID),
		Location:    in.Location,
		Description: in.Description,
		UserID:      in.UserID,
		Attachments: in.Attachments,
	})
	if err != nil {
		return nil, err
	}
	c.epochs.Trigger()
	return created, nil
}

// Delete withdraws a complaint.
func (c *Complaints) Delete(ctx context.Context, id models.ID) error {
	if err := c.api.DeleteComplaint(ctx, id); err != nil {
		return err
	}
	c.epochs.Trigger()
	return nil
}
