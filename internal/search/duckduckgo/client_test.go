package duckduckgo

import "testing"

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{
			href: "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=abc",
			want: "https://example.com/page",
		},
		{
			href: "https://direct.example.com/x",
			want: "https://direct.example.com/x",
		},
		{
			href: "//no-redirect.example.com/y",
			want: "https://no-redirect.example.com/y",
		},
	}

	for _, tt := range tests {
		if got := resolveRedirect(tt.href); got != tt.want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
