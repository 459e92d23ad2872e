package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		def      int
		wantPage int
		wantSize int
	}{
		{"defaults when absent", "", 10, 1, 10},
		{"explicit values", "page=3&pageSize=25", 10, 3, 25},
		{"zero page coerced to 1", "page=0", 10, 1, 10},
		{"negative page coerced to 1", "page=-4", 10, 1, 10},
		{"oversized pageSize clamped", "pageSize=1000", 10, 1, MaxPageSize},
		{"zero pageSize falls back to default", "pageSize=0", 8, 1, 8},
		{"garbage ignored", "page=abc&pageSize=xyz", 10, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			p := FromQuery(q, tt.def)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 16, Params{Page: 3, PageSize: 8}.Offset())
}

func TestNewEnvelopeNeverNil(t *testing.T) {
	env := NewEnvelope[string](nil, 0, Params{Page: 1, PageSize: 10})
	assert.NotNil(t, env.Items)
	assert.Empty(t, env.Items)
}
