package slug

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Overview", "overview"},
		{"  Hiring   Process ", "hiring-process"},
		{"Q&A: What's next?", "qa-whats-next"},
		{"Café Crème", "cafe-creme"},
		{"step-by-step guide", "step-by-step-guide"},
		{"a - b", "a---b"},
		{"!!!", Fallback},
		{"", Fallback},
		{"1. Scale", "1-scale"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Overview", "Q&A: What's next?", "  spaced\tout\ntext ", "Ünïcödé Tëxt", "---", "section"}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNamespaceClaim(t *testing.T) {
	var ns Namespace
	got := []string{
		ns.ClaimText("Overview"),
		ns.ClaimText("Overview"),
		ns.ClaimText("overview"),
		ns.ClaimText("Details"),
	}
	want := []string{"overview", "overview-2", "overview-3", "details"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("claim %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNamespaceSkipsReservedSuffix(t *testing.T) {
	var ns Namespace
	ns.Reserve("intro-2")
	if got := ns.Claim("intro"); got != "intro" {
		t.Fatalf("first claim = %q", got)
	}
	if got := ns.Claim("intro"); got != "intro-3" {
		t.Errorf("second claim = %q, want intro-3", got)
	}
	if ns.Reserve("intro") {
		t.Error("Reserve should report an already taken id")
	}
}
