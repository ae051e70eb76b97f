package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{PrefixSession, PrefixRequest} {
		t.Run(prefix, func(t *testing.T) {
			got, err := Generate(prefix)
			require.NoError(t, err)

			require.True(t, strings.HasPrefix(got, prefix+"-"))
			body := strings.TrimPrefix(got, prefix+"-")
			assert.Len(t, body, 21)
			for _, c := range body {
				assert.True(t,
					(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-',
					"character %q should be URL-safe", c)
			}
		})
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		got := MustGenerate(PrefixSession)
		_, dup := seen[got]
		require.False(t, dup, "duplicate id %s", got)
		seen[got] = struct{}{}
	}
}
