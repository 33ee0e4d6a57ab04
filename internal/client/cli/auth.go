package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/forms"
	"github.com/dmitrijs2005/pengaduan/internal/common"
)

// Prompt helpers, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getConfirm    = GetConfirm
)

// Register prompts for name, email and password and creates the account.
// The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	err = a.auth.Register(ctx, forms.SignUp{
		Name:                 name,
		Email:                email,
		Password:             string(password),
		PasswordConfirmation: string(confirm),
	})
	if err != nil {
		a.report(ctx, "register", err)
		return err
	}

	fmt.Fprintln(a.out, "Registration successful. Check your email to verify the account, then login.")
	return nil
}

// Login prompts for credentials and signs in. On success the per-user
// queries are bound to the new user.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, forms.SignIn{Email: email, Password: string(password)})
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Invalid email or password.")
			return err
		}
		a.report(ctx, "login", err)
		return err
	}

	a.bindUserQueries("")
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	if !user.Verified() {
		fmt.Fprintln(a.out, "Your email is not verified yet. Type 'verify' to resend the link.")
	}
	return nil
}

// Logout ends the session. The local session is cleared even when the
// server could not be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.SignOut(ctx)
	a.bindUserQueries("")
	if err != nil {
		a.log.Warn(ctx, "server logout failed", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the stored profile.
func (a *App) WhoAmI(_ context.Context) error {
	u := a.auth.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	verified := "no"
	if u.Verified() {
		verified = "yes"
	}
	fmt.Fprintf(a.out, "Name:     %s\nEmail:    %s\nRole:     %s\nVerified: %s\n", u.Name, u.Email, u.Role, verified)
	return nil
}

// Verify asks the backend to resend the verification mail.
func (a *App) Verify(ctx context.Context) error {
	already, err := a.auth.VerifyEmail(ctx)
	if err != nil {
		a.report(ctx, "verify", err)
		return err
	}
	if already {
		fmt.Fprintln(a.out, "Your email is already verified.")
	} else {
		fmt.Fprintln(a.out, "Verification link sent. Check your inbox.")
	}
	return nil
}

// ChangePassword prompts for the current and the new password.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	confirm, err := getPassword(a.out, "Confirm new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	err = a.auth.ChangePassword(ctx, forms.PasswordChange{
		Current: string(current),
		New:     string(next),
		Confirm: string(confirm),
	})
	if err != nil {
		a.report(ctx, "change password", err)
		return err
	}
	fmt.Fprintln(a.out, "Password updated.")
	return nil
}

// report shows err to the user in the most specific form available and
// logs it.
func (a *App) report(ctx context.Context, op string, err error) {
	var verr *forms.ValidationError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &verr):
		for _, f := range verr.FieldNames() {
			fmt.Fprintf(a.out, "  %s: %s\n", f, verr.Fields[f])
		}
		return
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later.")
	case errors.As(err, &apiErr):
		if len(apiErr.Errors) > 0 {
			fmt.Fprintln(a.out, apiErr.Errors.String())
		} else {
			fmt.Fprintln(a.out, "Error:", apiErr.Message)
		}
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	a.log.Error(ctx, op+" failed", "error", err)
}
