package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/pengaduan/internal/client/fetch"
	"github.com/dmitrijs2005/pengaduan/internal/client/models"
	"github.com/dmitrijs2005/pengaduan/internal/common"
)

const postsPerPage = 10

// Posts lists service posts, optionally filtered by a search phrase and a
// content type.
func (a *App) Posts(ctx context.Context) error {
	search, err := getSimpleText(a.reader, "Search (empty for latest)", a.out)
	if err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Type: berita, infografis, pengumuman (empty for all)", a.out)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(postsPerPage))
	if search == "" && kind == "" {
		params.Set("latest", "true")
	}
	if search != "" {
		params.Set("search", search)
	}
	if kind != "" {
		params.Set("type", kind)
	}

	// The list is a one-off screen; the query lives only for this command.
	q := fetch.New[[]models.Content](ctx, a.getter, a.epochs, fetch.Options{
		Endpoint: "/contents",
		Params:   params,
		Enabled:  true,
	}, a.log)
	defer q.Close()

	st, err := q.Wait(ctx)
	if err != nil {
		return err
	}
	if st.Err != nil {
		a.report(ctx, "list posts", st.Err)
		return st.Err
	}
	if st.Data == nil || len(*st.Data) == 0 {
		fmt.Fprintln(a.out, "No posts found.")
		return nil
	}
	for _, c := range *st.Data {
		fmt.Fprintln(a.out, a.postLine(c))
	}
	return nil
}

// Post shows one post in full.
func (a *App) Post(ctx context.Context) error {
	c, err := a.loadPost(ctx, "Enter post id")
	if err != nil || c == nil {
		return err
	}

	fmt.Fprintln(a.out, a.postLine(*c))
	if c.ImageURL != nil && *c.ImageURL != "" {
		fmt.Fprintln(a.out, "Image:", *c.ImageURL)
	}
	if c.CreatedBy != "" {
		fmt.Fprintln(a.out, "By:", c.CreatedBy)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, c.Text())
	return nil
}

// Bookmark adds the post to the saved list, or removes it when it is
// already there.
func (a *App) Bookmark(ctx context.Context) error {
	c, err := a.loadPost(ctx, "Enter post id to (un)bookmark")
	if err != nil || c == nil {
		return err
	}

	added, err := a.bookmarks.Toggle(ctx, *c)
	if err != nil {
		a.report(ctx, "bookmark", err)
		return err
	}
	if added {
		fmt.Fprintf(a.out, "Saved %q.\n", c.Title)
	} else {
		fmt.Fprintf(a.out, "Removed %q from saved posts.\n", c.Title)
	}
	return nil
}

// Bookmarks lists the saved posts, newest first.
func (a *App) Bookmarks(_ context.Context) error {
	list := a.bookmarks.List()
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No saved posts.")
		return nil
	}
	for _, b := range list {
		fmt.Fprintf(a.out, "%s  (saved %s)\n", a.postLine(b.Content), b.BookmarkedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// ClearBookmarks removes every saved post.
func (a *App) ClearBookmarks(ctx context.Context) error {
	if err := a.bookmarks.Clear(ctx); err != nil {
		a.report(ctx, "clear bookmarks", err)
		return err
	}
	fmt.Fprintln(a.out, "Saved posts cleared.")
	return nil
}

// loadPost prompts for an id and fetches that post through the shared post
// query. It returns nil without an error when nothing could be shown.
func (a *App) loadPost(ctx context.Context, prompt string) (*models.Content, error) {
	id, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}

	a.post.Update(fetch.Options{
		Endpoint: "/contents/" + url.PathEscape(id),
		Enabled:  id != "",
	})
	if id == "" {
		fmt.Fprintln(a.out, "Usage: enter a post id")
		return nil, nil
	}

	st, err := a.post.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if st.Err != nil {
		if errors.Is(st.Err, common.ErrNotFound) {
			fmt.Fprintln(a.out, "Post not found.")
			return nil, nil
		}
		a.report(ctx, "load post", st.Err)
		return nil, st.Err
	}
	return st.Data, nil
}

func (a *App) postLine(c models.Content) string {
	mark := " "
	if a.bookmarks.IsBookmarked(c.ID) {
		mark = "*"
	}
	return fmt.Sprintf("%s [%s] %-11s %s  %s", mark, c.ID, c.Type, c.CreatedAt.Local().Format("2006-01-02"), c.Title)
}
