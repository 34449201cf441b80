package db

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "valid_passthrough",
			input: "habit tracker é",
			want:  "habit tracker é",
		},
		{
			name:  "invalid_byte_dropped",
			input: "bad\xffbyte",
			want:  "badbyte",
		},
		{
			name:  "truncated_rune_dropped",
			input: "caf\xc3",
			want:  "caf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeUTF8(tt.input); got != tt.want {
				t.Errorf("SanitizeUTF8(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeIntToInt32(t *testing.T) {
	tests := []struct {
		input int
		want  int32
	}{
		{0, 0},
		{42, 42},
		{-7, -7},
		{math.MaxInt32, math.MaxInt32},
		{math.MaxInt32 + 1, math.MaxInt32},
		{math.MinInt32 - 1, math.MinInt32},
	}

	for _, tt := range tests {
		if got := safeIntToInt32(tt.input); got != tt.want {
			t.Errorf("safeIntToInt32(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestUUIDConversion(t *testing.T) {
	id := uuid.New().String()
	if got := fromUUID(toUUID(id)); got != id {
		t.Errorf("fromUUID(toUUID(%q)) = %q", id, got)
	}

	if got := toUUID("not-a-uuid"); got.Valid {
		t.Error("toUUID should mark unparseable ids invalid")
	}

	if got := fromUUID(pgtype.UUID{}); got != "" {
		t.Errorf("fromUUID(invalid) = %q, want empty", got)
	}
}

func TestTimestamptzConversion(t *testing.T) {
	if toTimestamptz(time.Time{}).Valid {
		t.Error("zero time should map to an invalid timestamptz")
	}

	now := time.Now()
	if got := fromTimestamptz(toTimestamptz(now)); !got.Equal(now) {
		t.Errorf("timestamptz round trip = %v, want %v", got, now)
	}

	if got := fromTimestamptz(pgtype.Timestamptz{}); !got.IsZero() {
		t.Errorf("fromTimestamptz(invalid) = %v, want zero time", got)
	}
}

func TestFloat4Conversion(t *testing.T) {
	if got := fromFloat4(toFloat4(42.5)); got != 42.5 {
		t.Errorf("float4 round trip = %v, want 42.5", got)
	}

	if got := fromFloat4(pgtype.Float4{}); got != 0 {
		t.Errorf("fromFloat4(invalid) = %v, want 0", got)
	}
}
