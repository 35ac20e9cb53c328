// Package view renders the HTML templates with a process-wide parse cache.
// Language and theme come from resolvers the host app injects at bootstrap,
// keeping this package decoupled from the middleware that reads cookies.
package view

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adelineb/nounou-app/i18n"
)

var (
	baseDir  string
	baseOnce sync.Once

	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver  = func(_ *http.Request) string { return "fr" }
	themeResolver = func(_ *http.Request) string { return "system" }
)

// SetLangResolver injects the per-request language resolver.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetThemeResolver injects the per-request theme resolver.
func SetThemeResolver(f func(*http.Request) string) {
	if f != nil {
		themeResolver = f
	}
}

// BaseDir locates the templates directory whether the server runs from the
// repo root or a subdirectory like cmd/server.
func BaseDir() string {
	baseOnce.Do(func() {
		for _, c := range []string{"templates", "../templates", "../../templates"} {
			if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
				baseDir = filepath.Clean(c)
				return
			}
		}
		baseDir = "templates" // parsing will error clearly
	})
	return baseDir
}

func load(name string) (*template.Template, error) {
	dev := os.Getenv("DEV") == "1"
	if !dev {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}
	path := filepath.Join(BaseDir(), name)
	layout := filepath.Join(BaseDir(), "layout.html")
	funcs := template.FuncMap{
		"t":     i18n.T,
		"upper": strings.ToUpper,
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}
	t, err := template.New("layout.html").Funcs(funcs).ParseFiles(layout, path)
	if err != nil {
		return nil, err
	}
	if !dev {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render writes the named template inside the shared layout, passing the
// request's language, theme and current year alongside the handler data.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	t, err := load(name)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Lang"] = langResolver(r)
	data["Theme"] = themeResolver(r)
	if _, ok := data["Year"]; !ok {
		data["Year"] = time.Now().Year()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, "layout.html", data)
}
