package kid

import "testing"

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Alex", want: "alex"},
		{name: "strips spaces", input: "Alex Jr", want: "alexjr"},
		{name: "strips punctuation", input: "Mary-Jane O'Neil!", want: "maryjaneoneil"},
		{name: "keeps digits", input: "Kid 2", want: "kid2"},
		{name: "unicode stripped", input: "Zoë", want: "zo"},
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "!!!", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeSlug(tc.input); got != tc.want {
				t.Fatalf("NormalizeSlug(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeSlugQuery(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Alex", want: "alex"},
		{name: "keeps suffix dash", input: "alex-1", want: "alex-1"},
		{name: "strips punctuation", input: "Alex-1!", want: "alex-1"},
		{name: "trims edge dashes", input: "-alex-", want: "alex"},
		{name: "only dashes", input: "---", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeSlugQuery(tc.input); got != tc.want {
				t.Fatalf("NormalizeSlugQuery(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeSlugIdempotent(t *testing.T) {
	inputs := []string{"Alex", "Mary-Jane", "kid2", "ZOË!", "", "a b c 1 2 3"}
	for _, input := range inputs {
		once := NormalizeSlug(input)
		if twice := NormalizeSlug(once); twice != once {
			t.Errorf("NormalizeSlug not idempotent for %q: %q -> %q", input, once, twice)
		}
	}
}
