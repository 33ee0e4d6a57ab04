// Package forms validates user input before it is sent to the backend.
// Messages are the ones shown next to the offending field.
package forms

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidationError maps a field name to its message. Field names match the
// request fields of the API, so server-side errors can be merged in.
type ValidationError struct {
	Fields map[string]string
}

// FieldNames returns the failed fields in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ValidationError) Error() string {
	names := e.FieldNames()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

type checker map[string]string

// fail records msg for field unless the field already failed.
func (c checker) fail(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

func (c checker) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: c}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func length(s string) int { return utf8.RuneCountInString(s) }

func (c checker) email(v string) {
	switch {
	case blank(v):
		c.fail("email", "Email is required")
	case !emailPattern.MatchString(v):
		c.fail("email", "Please enter a valid email address")
	}
}

type SignIn struct {
	Email    string
	Password string
}

func (f SignIn) Validate() error {
	c := checker{}
	c.email(f.Email)
	if blank(f.Password) {
		c.fail("password", "Password is required")
	}
	return c.err()
}

type SignUp struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

func (f SignUp) Validate() error {
	c := checker{}

	switch {
	case blank(f.Name):
		c.fail("name", "Full name is required")
	case length(strings.TrimSpace(f.Name)) < 2:
		c.fail("name", "Name is too short")
	}

	c.email(f.Email)

	switch {
	case f.Password == "":
		c.fail("password", "Password tidak boleh kosong")
	case length(f.Password) < 8:
		c.fail("password", "Password minimal 8 karakter")
	}

	switch {
	case f.PasswordConfirmation == "":
		c.fail("password_confirmation", "Harap konfirmasi password anda")
	case f.PasswordConfirmation != f.Password:
		c.fail("password_confirmation", "Password tidak cocok")
	}
	return c.err()
}

type Complaint struct {
	Title       string
	Description string
	Location    string
	CategoryID  string
}

func (f Complaint) Validate() error {
	c := checker{}

	switch {
	case blank(f.Title):
		c.fail("title", "Judul pengaduan wajib diisi")
	case length(f.Title) < 5:
		c.fail("title", "Judul terlalu pendek (minimal 5 karakter)")
	}

	switch {
	case blank(f.Description):
		c.fail("description", "Deskripsi pengaduan wajib diisi")
	case length(f.Description) < 20:
		c.fail("description", "Deskripsi terlalu pendek (minimal 20 karakter)")
	}

	if blank(f.Location) {
		c.fail("location", "Lokasi wajib diisi")
	}
	if f.CategoryID == "" {
		c.fail("category_id", "Kategori wajib dipilih")
	}
	return c.err()
}

type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

func (f PasswordChange) Validate() error {
	c := checker{}
	if f.Current == "" {
		c.fail("current_password", "Password saat ini wajib diisi")
	}
	if length(f.New) < 6 {
		c.fail("new_password", "Password baru harus minimal 6 karakter")
	}
	if f.New != f.Confirm {
		c.fail("new_password_confirmation", "Konfirmasi password tidak cocok")
	}
	return c.err()
}
