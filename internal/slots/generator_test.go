package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		open  string
		close string
		want  []string
	}{
		{
			name:  "full day with break reset",
			open:  "09:00",
			close: "18:00",
			want: []string{
				"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00",
				"13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
				"17:00", "17:30",
			},
		},
		{
			name:  "close is exclusive",
			open:  "16:00",
			close: "17:00",
			want:  []string{"16:00", "16:30"},
		},
		{
			name:  "open equals close",
			open:  "10:00",
			close: "10:00",
			want:  nil,
		},
		{
			name:  "open after close",
			open:  "18:00",
			close: "09:00",
			want:  nil,
		},
		{
			name:  "open missing",
			open:  "",
			close: "18:00",
			want:  nil,
		},
		{
			name:  "close malformed",
			open:  "09:00",
			close: "18h00",
			want:  nil,
		},
		{
			name:  "open inside break jumps to break end",
			open:  "12:45",
			close: "15:00",
			want:  []string{"13:30", "14:00", "14:30"},
		},
		{
			name:  "offset open does not produce mid-break slot",
			open:  "09:15",
			close: "14:00",
			want:  []string{"09:15", "09:45", "10:15", "10:45", "11:15", "11:45", "12:15", "13:30"},
		},
		{
			name:  "morning only",
			open:  "08:00",
			close: "12:00",
			want:  []string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.open, tt.close)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateNeverEmitsBreakSlots(t *testing.T) {
	for openH := 8; openH <= 12; openH++ {
		got := Generate(FormatClock(openH*60), "20:00")
		require.NotEmpty(t, got)
		assert.Equal(t, FormatClock(openH*60), got[0], "first slot equals open")
		for _, s := range got {
			mins, err := ParseClock(s)
			require.NoError(t, err)
			assert.False(t, mins >= breakStart && mins < breakEnd,
				"slot %s falls inside the break window", s)
			assert.Less(t, mins, 20*60, "slot %s must start before close", s)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestValidateHours(t *testing.T) {
	assert.NoError(t, ValidateHours("09:00", "18:00"))
	assert.Error(t, ValidateHours("18:00", "09:00"))
	assert.Error(t, ValidateHours("09:00", "09:00"))
	assert.Error(t, ValidateHours("nine", "18:00"))
}
