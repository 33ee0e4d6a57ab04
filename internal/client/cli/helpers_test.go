package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/config"
	"github.com/dmitrijs2005/pengaduan/internal/client/forms"
	"github.com/dmitrijs2005/pengaduan/internal/client/models"
	"github.com/dmitrijs2005/pengaduan/internal/client/refresh"
	"github.com/dmitrijs2005/pengaduan/internal/client/services"
	"github.com/dmitrijs2005/pengaduan/internal/client/storage"
	"github.com/dmitrijs2005/pengaduan/internal/common"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

// readerFromLines feeds each line, newline terminated, to the prompts.
func readerFromLines(lines ...string) *bufio.Reader {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l + "\n")
	}
	return bufio.NewReader(strings.NewReader(sb.String()))
}

// syncBuffer is written by command handlers and the redirect watcher at
// the same time.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	var i int
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		require.Less(t, i, len(pws), "unexpected password prompt")
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

type testApp struct {
	*App
	fakeAuth       *fakeAuth
	fakeComplaints *fakeComplaints
	fakeGetter     *fakeGetter
	buf            *syncBuffer
}

func newTestApp(t *testing.T, lines ...string) *testApp {
	t.Helper()
	ctx := testCtx(t)

	store := storage.NewStore(storage.NewMemoryBackend(), logging.Nop())
	bookmarks := services.NewBookmarks(ctx, store, logging.Nop())
	t.Cleanup(bookmarks.Close)

	auth := newFakeAuth()
	complaints := &fakeComplaints{}
	getter := newFakeGetter()

	var cfg config.Config
	cfg.LoadDefaults()

	a := newApp(ctx, &cfg, auth, bookmarks, complaints, getter, refresh.New(), logging.Nop())
	t.Cleanup(a.Close)

	out := &syncBuffer{}
	a.out = out
	a.reader = readerFromLines(lines...)

	return &testApp{App: a, fakeAuth: auth, fakeComplaints: complaints, fakeGetter: getter, buf: out}
}

// ------------ fake auth ------------

type fakeAuth struct {
	mu sync.Mutex

	status services.Status
	user   *models.User

	loginForm forms.SignIn
	loginUser models.User
	loginErr  error

	registerForm forms.SignUp
	registerErr  error

	signOutCalled bool
	signOutErr    error

	verifyAlready bool
	verifyErr     error

	passwordForm forms.PasswordChange
	passwordErr  error

	redirects chan struct{}
}

var _ services.AuthService = (*fakeAuth)(nil)

func newFakeAuth() *fakeAuth {
	return &fakeAuth{status: services.SignedOut, redirects: make(chan struct{}, 1)}
}

func (f *fakeAuth) signIn(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = &u
	f.status = services.SignedIn
}

func (f *fakeAuth) Status() services.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeAuth) Token() string { return "" }

func (f *fakeAuth) User() *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil
	}
	u := *f.user
	return &u
}

func (f *fakeAuth) SignIn(_ context.Context, _ string, user models.User) error {
	f.signIn(user)
	return nil
}

func (f *fakeAuth) SignOut(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalled = true
	f.user = nil
	f.status = services.SignedOut
	return f.signOutErr
}

func (f *fakeAuth) UpdateUser(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = &user
	return nil
}

func (f *fakeAuth) Login(_ context.Context, form forms.SignIn) (*models.User, error) {
	f.mu.Lock()
	f.loginForm = form
	err := f.loginErr
	u := f.loginUser
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	f.signIn(u)
	return &u, nil
}

func (f *fakeAuth) Register(_ context.Context, form forms.SignUp) error {
	f.registerForm = form
	return f.registerErr
}

func (f *fakeAuth) VerifyEmail(_ context.Context) (bool, error) {
	return f.verifyAlready, f.verifyErr
}

func (f *fakeAuth) ChangePassword(_ context.Context, form forms.PasswordChange) error {
	f.passwordForm = form
	return f.passwordErr
}

func (f *fakeAuth) Redirects() <-chan struct{} { return f.redirects }

func (f *fakeAuth) Ready(_ context.Context) error { return nil }

func (f *fakeAuth) Close() {}

// ------------ fake complaints ------------

type fakeComplaints struct {
	cats     []models.Category
	fallback bool

	submitted *services.ComplaintInput
	result    *models.Complaint
	submitErr error

	deletedID models.ID
	deleteErr error
}

func (f *fakeComplaints) Categories(context.Context) ([]models.Category, bool) {
	return f.cats, f.fallback
}

func (f *fakeComplaints) Submit(_ context.Context, in services.ComplaintInput) (*models.Complaint, error) {
	f.submitted = &in
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

func (f *fakeComplaints) Delete(_ context.Context, id models.ID) error {
	f.deletedID = id
	return f.deleteErr
}

// ------------ fake getter ------------

type getCall struct {
	endpoint string
	params   url.Values
}

// fakeGetter answers GET requests from per-endpoint handlers, wrapping the
// result in a {"data": ...} envelope. Unknown endpoints are not found.
type fakeGetter struct {
	mu       sync.Mutex
	handlers map[string]func(url.Values) (any, error)
	calls    []getCall
}

var _ client.Getter = (*fakeGetter)(nil)

func newFakeGetter() *fakeGetter {
	return &fakeGetter{handlers: map[string]func(url.Values) (any, error){}}
}

func (g *fakeGetter) handle(endpoint string, h func(url.Values) (any, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[endpoint] = h
}

func (g *fakeGetter) Get(_ context.Context, endpoint string, params url.Values, out any) error {
	g.mu.Lock()
	g.calls = append(g.calls, getCall{endpoint: endpoint, params: params})
	h, ok := g.handlers[endpoint]
	g.mu.Unlock()

	if !ok {
		return common.ErrNotFound
	}
	v, err := h(params)
	if err != nil {
		return err
	}
	b, err := json.Marshal(map[string]any{"data": v})
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (g *fakeGetter) callsTo(endpoint string) []getCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []getCall
	for _, c := range g.calls {
		if c.endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}
