package customer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meinhoongagan/feastbook/apperr"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: `4`, want: 4},
		{raw: `"5"`, want: 5},
		{raw: `" 1 "`, want: 1},
		{raw: `0`, wantErr: true},
		{raw: `6`, wantErr: true},
		{raw: `4.5`, wantErr: true},
		{raw: `"four"`, wantErr: true},
		{raw: `null`, wantErr: true},
		{raw: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseRating(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
