package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/metrics":                "/metrics",
		"/v1/films":               "/v1/films",
		"/v1/films/01J0ABC":       "/v1/films/:id",
		"/v1/films/01J0ABC?x=1":   "/v1/films/:id",
		"/v1/films/01J0ABC/extra": "/v1/films/01J0ABC/extra",
		"/v1/auth/signin":         "/v1/auth/signin",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
