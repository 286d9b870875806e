// Package view renders the application's HTML pages from templates embedded
// in the binary.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"home", "login", "register", "secrets", "submit"} {
		pages[name] = template.Must(template.ParseFS(templatesFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
}

func render(w io.Writer, page string, data any) error {
	tmpl, ok := pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}

// Home renders the landing page.
func Home(w io.Writer) error {
	return render(w, "home", nil)
}

// Login renders the login form.
func Login(w io.Writer) error {
	return render(w, "login", nil)
}

// Register renders the registration form.
func Register(w io.Writer) error {
	return render(w, "register", nil)
}

// SecretsData is the data for the secrets listing page.
type SecretsData struct {
	Title    string
	Secrets  []string
	LoggedIn bool
}

// Secrets renders the secrets listing page.
func Secrets(w io.Writer, data SecretsData) error {
	return render(w, "secrets", data)
}

// Submit renders the secret-submission form.
func Submit(w io.Writer) error {
	return render(w, "submit", nil)
}
