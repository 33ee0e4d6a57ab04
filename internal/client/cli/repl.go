package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Verify(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Posts(ctx context.Context) error
	Post(ctx context.Context) error
	Bookmark(ctx context.Context) error
	Bookmarks(ctx context.Context) error
	ClearBookmarks(ctx context.Context) error
	Complaints(ctx context.Context) error
	Complaint(ctx context.Context) error
	NewComplaint(ctx context.Context) error
	DeleteComplaint(ctx context.Context) error
	Stats(ctx context.Context) error
	Refresh(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, posts, post, bookmark, bookmarks, clearbookmarks, refresh, exit"
	helpMember = "Available commands: posts, post, bookmark, bookmarks, clearbookmarks, (c)omplaints, complaint, new, delete, stats, whoami, verify, passwd, refresh, logout, exit"
)

// runREPL starts a read–eval–print loop for the pengaduan CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Posts and saved posts are available to everyone. Complaint and account
// commands require a session; without one the user is asked to login.
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pengaduan %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)

		case "posts":
			_ = a.Posts(ctx)
		case "post":
			_ = a.Post(ctx)
		case "bookmark":
			_ = a.Bookmark(ctx)
		case "bookmarks":
			_ = a.Bookmarks(ctx)
		case "clearbookmarks":
			_ = a.ClearBookmarks(ctx)
		case "refresh":
			_ = a.Refresh(ctx)

		case "c", "complaints", "complaint", "new", "delete", "stats", "whoami", "verify", "passwd", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first.")
				continue
			}
			runMemberCommand(ctx, a, cmd)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func runMemberCommand(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "c", "complaints":
		_ = a.Complaints(ctx)
	case "complaint":
		_ = a.Complaint(ctx)
	case "new":
		_ = a.NewComplaint(ctx)
	case "delete":
		_ = a.DeleteComplaint(ctx)
	case "stats":
		_ = a.Stats(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "verify":
		_ = a.Verify(ctx)
	case "passwd":
		_ = a.ChangePassword(ctx)
	case "logout":
		_ = a.Logout(ctx)
	}
}
