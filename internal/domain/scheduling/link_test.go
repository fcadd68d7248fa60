package scheduling

import (
	"strings"
	"testing"
)

func TestLinkGenerator_Format(t *testing.T) {
	g := NewLinkGenerator("meet.jit.si")
	for i := 0; i < 200; i++ {
		link := g.Generate()
		if !linkPattern.MatchString(link) {
			t.Fatalf("link %q does not match pattern", link)
		}
	}
}

func TestLinkGenerator_CustomHost(t *testing.T) {
	link := NewSeededLinkGenerator("video.vidaplus.com.br", 1).Generate()
	if !strings.HasPrefix(link, "https://video.vidaplus.com.br/") {
		t.Errorf("unexpected host in %q", link)
	}
}

func TestLinkGenerator_SeededIsDeterministic(t *testing.T) {
	a := NewSeededLinkGenerator("meet.jit.si", 7)
	b := NewSeededLinkGenerator("meet.jit.si", 7)
	for i := 0; i < 5; i++ {
		if x, y := a.Generate(), b.Generate(); x != y {
			t.Fatalf("expected same sequence, got %q and %q", x, y)
		}
	}
}
