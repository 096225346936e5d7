package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_FormatForCard(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"date only", "2024-01-01", "01/01/2024"},
		{"newsdata layout", "2024-03-05 14:30:00", "05/03/2024"},
		{"rfc3339", "2024-12-31T23:00:00Z", "31/12/2024"},
		{"rfc1123z", "Mon, 02 Jan 2006 15:04:05 -0700", "02/01/2006"},
		{"empty", "", ""},
		{"malformed", "not a date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatForCard(tt.raw))
		})
	}
}

func TestFormatter_ParseFallsBackToPermissiveParser(t *testing.T) {
	f := NewFormatter()

	got, ok := f.Parse("March 7, 2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), got)
}

func TestFormatter_Normalize(t *testing.T) {
	f := NewFormatter()

	assert.Equal(t, "2024-01-01T00:00:00Z", f.Normalize("2024-01-01"))
	assert.Equal(t, "garbage", f.Normalize(" garbage "))
}
