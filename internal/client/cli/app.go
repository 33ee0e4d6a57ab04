package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/config"
	"github.com/dmitrijs2005/pengaduan/internal/client/fetch"
	"github.com/dmitrijs2005/pengaduan/internal/client/models"
	"github.com/dmitrijs2005/pengaduan/internal/client/refresh"
	"github.com/dmitrijs2005/pengaduan/internal/client/services"
	"github.com/dmitrijs2005/pengaduan/internal/client/storage"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

// App is the interactive client. It owns the services and the long-lived
// queries backing the list screens.
type App struct {
	config     *config.Config
	auth       services.AuthService
	bookmarks  services.BookmarkService
	complaints services.ComplaintService
	getter     client.Getter
	epochs     *refresh.Broadcaster
	log        logging.Logger

	reader *bufio.Reader
	out    io.Writer

	myComplaints *fetch.Query[[]models.Complaint]
	stats        *fetch.Query[models.Stats]
	post         *fetch.Query[models.Content]
	complaint    *fetch.Query[models.Complaint]

	closers []func()
}

// NewApp opens the configured store and wires the API client, the session
// and the domain services on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	backend, err := storage.Open(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}
	return newAppOn(ctx, c, backend, log), nil
}

func newAppOn(ctx context.Context, c *config.Config, backend storage.Backend, log logging.Logger) *App {
	store := storage.NewStore(backend, log)

	// Requests carry the in-memory session token. A sign-out drops it at
	// once even while the backend delete is still pending. The session's
	// own profile loads pass their token explicitly, so session is set
	// before the first lookup.
	var session *services.Session
	tokens := client.TokenFunc(func(context.Context) string {
		return session.Token()
	})
	api := client.NewHTTPClient(c, tokens, log)
	epochs := refresh.New()

	session = services.NewSession(ctx, api, store, log)
	bookmarks := services.NewBookmarks(ctx, store, log)
	complaints := services.NewComplaints(api, epochs, log)

	a := newApp(ctx, c, session, bookmarks, complaints, api, epochs, log)
	a.closers = append(a.closers,
		session.Close,
		bookmarks.Close,
		func() {
			if err := store.Close(); err != nil {
				log.Error(context.Background(), "error closing store", "error", err)
			}
		},
	)
	return a
}

func newApp(ctx context.Context, c *config.Config, auth services.AuthService, bookmarks services.BookmarkService,
	complaints services.ComplaintService, getter client.Getter, epochs *refresh.Broadcaster, log logging.Logger) *App {

	a := &App{
		config:     c,
		auth:       auth,
		bookmarks:  bookmarks,
		complaints: complaints,
		getter:     getter,
		epochs:     epochs,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	// Queries start disabled and are bound to their inputs on first use.
	a.myComplaints = fetch.New[[]models.Complaint](ctx, getter, epochs, fetch.Options{Endpoint: "/complaints"}, log)
	a.stats = fetch.New[models.Stats](ctx, getter, epochs, fetch.Options{Endpoint: "/complaint/stats"}, log)
	a.post = fetch.New[models.Content](ctx, getter, epochs, fetch.Options{Endpoint: "/contents"}, log)
	a.complaint = fetch.New[models.Complaint](ctx, getter, epochs, fetch.Options{Endpoint: "/complaints"}, log)
	a.closers = append(a.closers, a.myComplaints.Close, a.stats.Close, a.post.Close, a.complaint.Close)
	return a
}

// Run starts the REPL and releases every resource once it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close stops the queries and flushes the stored state. Safe to call once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.auth.Status() == services.SignedIn
}

// userParams scopes complaint queries to the signed in user. It reports
// false when nobody is signed in.
func (a *App) userParams(extra url.Values) (url.Values, bool) {
	u := a.auth.User()
	if u == nil || !a.isLoggedIn() {
		return nil, false
	}
	p := url.Values{}
	for k, v := range extra {
		p[k] = v
	}
	p.Set("user_id", u.ID.String())
	return p, true
}

// bindUserQueries points the per-user queries at the current user, or
// disables them when signed out.
func (a *App) bindUserQueries(status string) {
	params, ok := a.userParams(nil)
	a.stats.Update(fetch.Options{Endpoint: "/complaint/stats", Params: params, Enabled: ok})

	if status != "" && ok {
		params.Set("status", status)
	}
	a.myComplaints.Update(fetch.Options{Endpoint: "/complaints", Params: params, Enabled: ok})
}

// WatchRedirects reports every forced sign-out until ctx is done.
func (a *App) WatchRedirects(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.auth.Redirects():
			a.bindUserQueries("")
			fmt.Fprintln(a.out, "Your session has ended. Please login again.")
		}
	}
}
