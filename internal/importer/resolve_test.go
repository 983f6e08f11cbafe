package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAccount(t *testing.T) {
	tests := []struct {
		name     string
		mapping  map[string]string
		sourceID string
		want     string
		wantOK   bool
	}{
		{"empty mapping passes through", nil, "acct-1", "acct-1", true},
		{"empty non-nil mapping passes through", map[string]string{}, "acct-1", "acct-1", true},
		{"mapped ID is translated", map[string]string{"acct-1": "uuid-1"}, "acct-1", "uuid-1", true},
		{"unmapped ID signals skip", map[string]string{"acct-1": "uuid-1"}, "acct-9", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveAccount(tt.mapping, tt.sourceID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
