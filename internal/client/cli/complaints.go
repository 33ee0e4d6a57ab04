package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/fetch"
	"github.com/dmitrijs2005/pengaduan/internal/client/models"
	"github.com/dmitrijs2005/pengaduan/internal/client/services"
	"github.com/dmitrijs2005/pengaduan/internal/common"
)

var readFile = os.ReadFile

// Complaints lists the user's complaints, optionally filtered by status.
func (a *App) Complaints(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}
	status, err := getSimpleText(a.reader, "Status: menunggu, proses, selesai, ditolak (empty for all)", a.out)
	if err != nil {
		return err
	}

	a.bindUserQueries(status)
	st, err := a.myComplaints.Wait(ctx)
	if err != nil {
		return err
	}
	if st.Err != nil {
		a.report(ctx, "list complaints", st.Err)
		return st.Err
	}
	if st.Data == nil || len(*st.Data) == 0 {
		fmt.Fprintln(a.out, "No complaints yet.")
		return nil
	}
	for _, c := range *st.Data {
		fmt.Fprintf(a.out, "[%s] %-18s %s  %s\n", c.ID, c.Status.Label(), c.CreatedAt.Local().Format("2006-01-02"), c.Title)
	}
	return nil
}

// Complaint shows one complaint with its response and attachments.
func (a *App) Complaint(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter complaint id", a.out)
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Fprintln(a.out, "Usage: enter a complaint id")
		return nil
	}

	a.complaint.Update(fetch.Options{Endpoint: "/complaints/" + url.PathEscape(id), Enabled: true})
	st, err := a.complaint.Wait(ctx)
	if err != nil {
		return err
	}
	if st.Err != nil {
		if errors.Is(st.Err, common.ErrNotFound) {
			fmt.Fprintln(a.out, "Complaint not found.")
			return nil
		}
		a.report(ctx, "load complaint", st.Err)
		return st.Err
	}

	c := st.Data
	if c == nil {
		fmt.Fprintln(a.out, "Complaint not found.")
		return nil
	}
	fmt.Fprintf(a.out, "%s\nStatus:   %s\nCategory: %s\nLocation: %s\nDate:     %s\n\n%s\n",
		c.Title, c.Status.Label(), c.CategoryName(), c.Location, c.CreatedAt.Local().Format("2006-01-02 15:04"), c.Description)
	if c.Response != nil && *c.Response != "" {
		fmt.Fprintf(a.out, "\nResponse: %s\n", *c.Response)
	}
	for _, att := range c.Attachments {
		fmt.Fprintf(a.out, "Attachment: %s (%s)\n", att.FileName, att.FileType)
	}
	return nil
}

// NewComplaint collects a complaint and submits it.
func (a *App) NewComplaint(ctx context.Context) error {
	u := a.auth.User()
	if u == nil {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}

	cats, fallback := a.complaints.Categories(ctx)
	if fallback {
		fmt.Fprintln(a.out, "Using default categories.")
	}
	for _, c := range cats {
		fmt.Fprintf(a.out, "  %s) %s\n", c.ID, c.Name)
	}

	var err error
	in := services.ComplaintInput{UserID: u.ID}

	if in.CategoryID, err = getSimpleText(a.reader, "Category id", a.out); err != nil {
		return err
	}
	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.Location, err = getSimpleText(a.reader, "Location", a.out); err != nil {
		return err
	}
	paths, err := getSimpleText(a.reader, "Attachment paths, comma separated (empty for none)", a.out)
	if err != nil {
		return err
	}
	if in.Attachments, err = loadUploads(paths); err != nil {
		a.report(ctx, "read attachment", err)
		return err
	}

	c, err := a.complaints.Submit(ctx, in)
	if err != nil {
		a.report(ctx, "submit complaint", err)
		return err
	}
	fmt.Fprintf(a.out, "Complaint submitted (id %s, status %s).\n", c.ID, c.Status.Label())
	return nil
}

// DeleteComplaint withdraws a complaint after confirmation.
func (a *App) DeleteComplaint(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter complaint id to delete", a.out)
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Fprintln(a.out, "Usage: enter a complaint id")
		return nil
	}
	ok, err := getConfirm(a.reader, "Delete complaint "+id+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.complaints.Delete(ctx, models.ID(id)); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintln(a.out, "Complaint not found.")
			return err
		}
		a.report(ctx, "delete complaint", err)
		return err
	}
	fmt.Fprintln(a.out, "Complaint deleted.")
	return nil
}

// Stats prints the per-status summary of the user's complaints.
func (a *App) Stats(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first.")
		return nil
	}
	a.bindUserQueries("")
	st, err := a.stats.Wait(ctx)
	if err != nil {
		return err
	}
	if st.Err != nil {
		a.report(ctx, "load stats", st.Err)
		return st.Err
	}
	if st.Data == nil {
		fmt.Fprintln(a.out, "No statistics yet.")
		return nil
	}
	s := st.Data
	fmt.Fprintf(a.out, "Total:    %d\n%-9s %d\n%-9s %d\n%-9s %d\n%-9s %d\n", s.Total,
		models.StatusPending.Label()+":", s.Pending,
		models.StatusInProgress.Label()+":", s.InProgress,
		models.StatusResolved.Label()+":", s.Resolved,
		models.StatusRejected.Label()+":", s.Rejected)
	return nil
}

// Refresh reloads every active list.
func (a *App) Refresh(_ context.Context) error {
	a.epochs.Trigger()
	fmt.Fprintln(a.out, "Refreshing.")
	return nil
}

// loadUploads reads the comma separated files in paths. Size limits are
// enforced when the complaint is submitted.
func loadUploads(paths string) ([]client.Upload, error) {
	var out []client.Upload
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := readFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		ct := mime.TypeByExtension(filepath.Ext(p))
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		out = append(out, client.Upload{Name: filepath.Base(p), ContentType: ct, Data: data})
	}
	return out, nil
}
