package profile

import "testing"

func TestActiveDefault(t *testing.T) {
	p := Active()
	if p.WidthDots != 576 {
		t.Fatalf("default width = %d, want 576", p.WidthDots)
	}
}

func TestSetActiveIsVisibleToReaders(t *testing.T) {
	custom := Profile{Kind: KindCanvas, Name: "preview", WidthDots: 384}
	SetActive(custom)
	defer SetActive(Default203DPI576)

	got := Active()
	if got.Name != "preview" || got.WidthDots != 384 {
		t.Fatalf("Active() = %+v, want %+v", got, custom)
	}
}

func TestStoreRegisterGetList(t *testing.T) {
	s := NewStore()
	s.Register(Profile{Name: "narrow", WidthDots: 384})

	got, ok := s.Get("narrow")
	if !ok || got.WidthDots != 384 {
		t.Fatalf("Get(narrow) = %+v, %v", got, ok)
	}

	if _, ok := s.Get("missing"); ok {
		t.Fatalf("Get(missing) unexpectedly found a profile")
	}

	all := s.List()
	if len(all) != 2 {
		t.Fatalf("List() len = %d, want 2 (default + narrow)", len(all))
	}
}
