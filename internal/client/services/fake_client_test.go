package services

import (
	"context"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/models"
)

// userCall is one GET /user request, answered by the test.
type userCall struct {
	ctx   context.Context
	reply chan userReply
}

type userReply struct {
	user *models.User
	err  error
}

// fakeClient implements client.Client for unit tests of the services.
type fakeClient struct {
	mu sync.Mutex

	LoginRet *client.LoginResponse
	LoginErr error

	RegisterErr error
	LogoutErr   error

	VerifyRet *client.VerificationResponse
	VerifyErr error

	UpdatePasswordErr error

	CategoriesRet []models.Category
	CategoriesErr error

	CreateRet *models.Complaint
	CreateErr error
	DeleteErr error

	// GET /user requests are handed to the test through userCalls.
	userCalls chan *userCall

	// captured arguments
	LastLoginEmail  string
	LastRegister    client.RegisterRequest
	LogoutCalls     int
	LastLogoutToken string
	LastPassword    client.UpdatePasswordRequest
	LastComplaint   client.ComplaintRequest
	LastDeleteID    models.ID
	CreateCalls     int
}

func newFakeClient() *fakeClient {
	return &fakeClient{userCalls: make(chan *userCall, 8)}
}

func (c *userCall) token() string {
	t, _ := client.TokenFrom(c.ctx)
	return t
}

func (c *userCall) respond(u models.User) { c.reply <- userReply{user: &u} }
func (c *userCall) fail(err error)        { c.reply <- userReply{err: err} }

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLoginEmail = email
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRegister = req
	return f.RegisterErr
}

func (f *fakeClient) User(ctx context.Context) (*models.User, error) {
	c := &userCall{ctx: ctx, reply: make(chan userReply, 1)}
	f.userCalls <- c
	select {
	case r := <-c.reply:
		return r.user, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	f.LastLogoutToken, _ = client.TokenFrom(ctx)
	return f.LogoutErr
}

func (f *fakeClient) SendVerificationNotification(ctx context.Context) (*client.VerificationResponse, error) {
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) UpdatePassword(ctx context.Context, req client.UpdatePasswordRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastPassword = req
	return f.UpdatePasswordErr
}

func (f *fakeClient) Categories(ctx context.Context) ([]models.Category, error) {
	return f.CategoriesRet, f.CategoriesErr
}

func (f *fakeClient) CreateComplaint(ctx context.Context, req client.ComplaintRequest) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastComplaint = req
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) DeleteComplaint(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *fakeClient) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	return nil
}
