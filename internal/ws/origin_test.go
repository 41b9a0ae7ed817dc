package ws

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrigin(t *testing.T) {
	cases := []struct {
		in   string
		out  string
		ok   bool
		name string
	}{
		{"http://localhost:3000", "http://localhost:3000", true, "plain"},
		{"HTTPS://Example.COM", "https://example.com", true, "case folded"},
		{"  https://chitchat.web.app ", "https://chitchat.web.app", true, "trimmed"},
		{"not a url", "", false, "garbage"},
		{"/relative/path", "", false, "no scheme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := normalizeOrigin(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.out, got)
		})
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000", "bogus"})

	allowed := &http.Request{Header: http.Header{"Origin": []string{"http://localhost:3000"}}}
	assert.True(t, check(allowed))

	blocked := &http.Request{Header: http.Header{"Origin": []string{"http://evil.example"}}}
	assert.False(t, check(blocked))

	noOrigin := &http.Request{Header: http.Header{}}
	assert.True(t, check(noOrigin))
}
