package slug

import "testing"

func TestSlugifyDeterminism(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "question mark stripped", input: "What is Zakat?", want: "what-is-zakat"},
		{name: "whitespace and hyphen runs collapse", input: "  Multiple   Spaces--here ", want: "multiple-spaces-here"},
		{name: "already canonical", input: "five-pillars", want: "five-pillars"},
		{name: "mixed punctuation", input: "Fasting: Rules & Etiquette!", want: "fasting-rules-etiquette"},
		{name: "unicode stripped", input: "Dua – Morning & Evening", want: "dua-morning-evening"},
		{name: "empty input", input: "", want: ""},
		{name: "only punctuation", input: "?!#", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Slugify(tc.input); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSlugifyMaxTruncatesOnWordBoundaries(t *testing.T) {
	t.Parallel()

	got := SlugifyMax("The Etiquette of Visiting the Sick", 17)
	if got != "the-etiquette-of" {
		t.Fatalf("expected truncated slug 'the-etiquette-of', got %q", got)
	}

	if trailing := SlugifyMax("abc def", 4); trailing != "abc" {
		t.Fatalf("expected trailing hyphen to be trimmed, got %q", trailing)
	}

	if unlimited := SlugifyMax("abc def", 0); unlimited != "abc-def" {
		t.Fatalf("expected maxLen 0 to disable truncation, got %q", unlimited)
	}
}

func TestSlugifyIsStable(t *testing.T) {
	t.Parallel()

	first := Slugify("How to Perform Wudu")
	second := Slugify("How to Perform Wudu")

	if first != second {
		t.Fatalf("expected identical slugs, got %q and %q", first, second)
	}
}
