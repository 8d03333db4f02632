package duckduckgo

import "testing"

func TestResolveRedirect(t *testing.T) {
	cases := map[string]string{
		"//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.bbc.com%2Fnews": "https://www.bbc.com/news",
		"https://www.bbc.com/news":                                  "https://www.bbc.com/news",
		"":                                                          "",
	}
	for in, want := range cases {
		if got := resolveRedirect(in); got != want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}
