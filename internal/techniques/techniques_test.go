package techniques

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandeepkv93/studyplan/internal/model"
)

func TestEveryTechniqueHasAPage(t *testing.T) {
	pages, err := All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(pages) != len(model.Techniques) {
		t.Fatalf("expected %d pages, got %d", len(model.Techniques), len(pages))
	}
	for _, p := range pages {
		if p.Title == "" || p.Title == string(p.Technique) {
			t.Fatalf("page %s has no heading", p.Technique)
		}
		if !strings.HasPrefix(p.Markdown, "# ") {
			t.Fatalf("page %s should start with a heading", p.Technique)
		}
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup("Eisenhower Matrix")
	if err != nil || p.Technique != model.TechniqueEisenhower {
		t.Fatalf("lookup by title: %+v %v", p, err)
	}
	p, err = Lookup("spaced-repetition")
	if err != nil || p.Title != "Spaced repetition" {
		t.Fatalf("lookup by id: %+v %v", p, err)
	}
	if _, err := Lookup("cramming"); !errors.Is(err, model.ErrInvalidTechnique) {
		t.Fatalf("expected ErrInvalidTechnique, got %v", err)
	}
	if _, err := Get(""); !errors.Is(err, model.ErrInvalidTechnique) {
		t.Fatalf("expected ErrInvalidTechnique for empty, got %v", err)
	}
}
