package templates

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultGet(t *testing.T) {
	c := Default()
	if got := c.Get(0); got != "cdefgab" {
		t.Errorf("Get(0) = %q, want %q", got, "cdefgab")
	}
	if got := c.Get(1); got != "c4d4e4f4g4a4b4>c4" {
		t.Errorf("Get(1) = %q, want %q", got, "c4d4e4f4g4a4b4>c4")
	}
	if got := c.Get(6); got != "A o4 cdefgab>c\nB o3 c2e2g2c2" {
		t.Errorf("Get(6) = %q, want multi-track template", got)
	}
}

func TestDefaultCount(t *testing.T) {
	if got := Default().Count(); got != 8 {
		t.Errorf("Count() = %d, want 8", got)
	}
}

func TestGetOutOfRangeReturnsFirst(t *testing.T) {
	c := Default()
	for _, idx := range []int{c.Count(), c.Count() + 10, -1} {
		if got := c.Get(idx); got != c.Get(0) {
			t.Errorf("Get(%d) = %q, want %q", idx, got, c.Get(0))
		}
	}
}

func TestTitle(t *testing.T) {
	c := Default()
	if got := c.Title(0); got != "Basic scale" {
		t.Errorf("Title(0) = %q, want %q", got, "Basic scale")
	}
	if got := c.Title(7); got != "Empty" {
		t.Errorf("Title(7) = %q, want %q", got, "Empty")
	}
	if got := c.Title(8); got != "Template 9" {
		t.Errorf("Title(8) = %q, want %q", got, "Template 9")
	}
}

func TestTitleUnnamedEntry(t *testing.T) {
	c, err := New(Template{Content: "cde"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Title(0); got != "Template 1" {
		t.Errorf("Title(0) = %q, want %q", got, "Template 1")
	}
}

func TestNextFullCycle(t *testing.T) {
	c := Default()
	for start := 0; start < c.Count(); start++ {
		idx := start
		for i := 0; i < c.Count(); i++ {
			idx = c.Next(idx)
			if idx < 0 || idx >= c.Count() {
				t.Fatalf("Next produced out of range index %d", idx)
			}
		}
		if idx != start {
			t.Errorf("after %d advances from %d got %d", c.Count(), start, idx)
		}
	}
}

func TestNextWraps(t *testing.T) {
	c := Default()
	if got := c.Next(c.Count() - 1); got != 0 {
		t.Errorf("Next(last) = %d, want 0", got)
	}
}

func TestNewEmpty(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrEmpty) {
		t.Errorf("New() error = %v, want ErrEmpty", err)
	}
}

func TestLoad(t *testing.T) {
	src := "- title: Arpeggio\n  content: \"ceg>c\"\n"
	c, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Count() != 1 || c.Get(0) != "ceg>c" || c.Title(0) != "Arpeggio" {
		t.Errorf("Load produced %d entries, first %q/%q", c.Count(), c.Title(0), c.Get(0))
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	src := "- title: x\n  body: cde\n"
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Error("Load with unknown field should fail")
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	if _, err := Load(strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		t.Errorf("Load(\"\") error = %v, want ErrEmpty", err)
	}
}

func TestExtend(t *testing.T) {
	c := Default().Extend(Template{Title: "Mine", Content: "gfedc"})
	if got := c.Count(); got != Default().Count()+1 {
		t.Fatalf("Count() = %d, want %d", got, Default().Count()+1)
	}
	if got := c.Get(c.Count() - 1); got != "gfedc" {
		t.Errorf("Get(last) = %q, want %q", got, "gfedc")
	}
	if Default().Count() != 8 {
		t.Error("Extend modified the default catalog")
	}
}
