package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/pengaduan/internal/client/models"
	"github.com/dmitrijs2005/pengaduan/internal/client/storage"
	"github.com/dmitrijs2005/pengaduan/internal/common"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

// BookmarkService keeps the locally saved content posts.
type BookmarkService interface {
	List() []models.BookmarkEntry
	IsBookmarked(id models.ID) bool
	Toggle(ctx context.Context, item models.Content) (bool, error)
	Remove(ctx context.Context, id models.ID) error
	Clear(ctx context.Context) error
}

// Bookmarks stores the whole list under the "bookmarks" key and rewrites it
// on every change. There is at most one entry per content id.
type Bookmarks struct {
	state *storage.State
	log   logging.Logger
	now   func() time.Time

	// mu serializes read-modify-write of the list.
	mu sync.Mutex
}

var _ BookmarkService = (*Bookmarks)(nil)

func NewBookmarks(ctx context.Context, store *storage.Store, log logging.Logger) *Bookmarks {
	return &Bookmarks{
		state: storage.NewState(ctx, store, common.BookmarksKey),
		log:   log.With("component", "bookmarks"),
		now:   time.Now,
	}
}

// List returns the bookmarks, newest first. A list that cannot be decoded
// is logged and treated as empty.
func (b *Bookmarks) List() []models.BookmarkEntry {
	raw := b.state.Value()
	if raw == nil {
		return nil
	}
	var list []models.BookmarkEntry
	if err := models.Decode(*raw, &list); err != nil {
		b.log.Error(context.Background(), "failed to parse bookmarks", "error", err)
		return nil
	}
	return list
}

func (b *Bookmarks) IsBookmarked(id models.ID) bool {
	return slices.ContainsFunc(b.List(), func(e models.BookmarkEntry) bool { return e.ID == id })
}

// Toggle removes item if it is bookmarked and adds it at the front
// otherwise. It reports whether the item is bookmarked afterwards.
func (b *Bookmarks) Toggle(ctx context.Context, item models.Content) (bool, error) {
	if err := b.state.Ready(ctx); err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.List()
	if i := index(list, item.ID); i >= 0 {
		return false, b.save(slices.Delete(list, i, i+1))
	}

	entry := models.BookmarkEntry{Content: item, BookmarkedAt: b.now().UTC()}
	return true, b.save(append([]models.BookmarkEntry{entry}, list...))
}

func (b *Bookmarks) Remove(ctx context.Context, id models.ID) error {
	if err := b.state.Ready(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.List()
	i := index(list, id)
	if i < 0 {
		return nil
	}
	return b.save(slices.Delete(list, i, i+1))
}

// Clear deletes the stored list.
func (b *Bookmarks) Clear(ctx context.Context) error {
	if err := b.state.Ready(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.SetValue(nil)
	return nil
}

func (b *Bookmarks) save(list []models.BookmarkEntry) error {
	if list == nil {
		list = []models.BookmarkEntry{}
	}
	enc, err := models.Encode(list)
	if err != nil {
		return err
	}
	b.state.SetValue(&enc)
	return nil
}

func (b *Bookmarks) Ready(ctx context.Context) error { return b.state.Ready(ctx) }

func (b *Bookmarks) Flush(ctx context.Context) error { return b.state.Flush(ctx) }

func (b *Bookmarks) Close() { b.state.Close() }

func index(list []models.BookmarkEntry, id models.ID) int {
	return slices.IndexFunc(list, func(e models.BookmarkEntry) bool { return e.ID == id })
}
