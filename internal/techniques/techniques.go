// Package techniques serves the productivity technique reference pages.
package techniques

import (
	"embed"
	"fmt"
	"strings"

	"github.com/sandeepkv93/studyplan/internal/model"
)

//go:embed pages/*.md
var pagesFS embed.FS

type Page struct {
	Technique model.Technique
	Title     string
	Markdown  string
}

// Lookup accepts a technique id or its title, case-insensitively.
func Lookup(name string) (Page, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, t := range model.Techniques {
		page, err := Get(t)
		if err != nil {
			return Page{}, err
		}
		if want == string(t) || want == strings.ToLower(page.Title) {
			return page, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %q", model.ErrInvalidTechnique, name)
}

func Get(t model.Technique) (Page, error) {
	if t == "" || !t.IsValid() {
		return Page{}, fmt.Errorf("%w: %q", model.ErrInvalidTechnique, t)
	}
	raw, err := pagesFS.ReadFile("pages/" + string(t) + ".md")
	if err != nil {
		return Page{}, fmt.Errorf("techniques: read page %s: %w", t, err)
	}
	md := string(raw)
	return Page{Technique: t, Title: title(md, t), Markdown: md}, nil
}

// All returns every page in display order.
func All() ([]Page, error) {
	out := make([]Page, 0, len(model.Techniques))
	for _, t := range model.Techniques {
		page, err := Get(t)
		if err != nil {
			return nil, err
		}
		out = append(out, page)
	}
	return out, nil
}

func title(md string, t model.Technique) string {
	first, _, _ := strings.Cut(md, "\n")
	if h, ok := strings.CutPrefix(first, "# "); ok {
		return strings.TrimSpace(h)
	}
	return string(t)
}
