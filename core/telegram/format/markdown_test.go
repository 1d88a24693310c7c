package format

import "testing"

func TestEscapeMD(t *testing.T) {
	got := EscapeMD("a_b *c* [d] `e`")
	want := `a\_b \*c\* \[d] ` + "\\`e\\`"
	if got != want {
		t.Fatalf("EscapeMD: got %q want %q", got, want)
	}
}

func TestEscapeMDV2(t *testing.T) {
	got := EscapeMDV2("a.b!c(d)")
	want := `a\.b\!c\(d\)`
	if got != want {
		t.Fatalf("EscapeMDV2: got %q want %q", got, want)
	}
}
