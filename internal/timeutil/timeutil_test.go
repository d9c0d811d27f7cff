package timeutil

import "testing"

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{75.5, "00:01:15.500"},
		{3723.042, "01:02:03.042"},
		{-5, "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{125, "2:05"},
		{3661, "1:01:01"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatFilename(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00h00m00s"},
		{452.7, "00h07m32s"},
		{3723, "01h02m03s"},
	}
	for _, tt := range tests {
		if got := FormatFilename(tt.seconds); got != tt.want {
			t.Errorf("FormatFilename(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"47.5", 47.5, false},
		{"0", 0, false},
		{"47m40s", 2860, false},
		{"1h2m3s", 3723, false},
		{"90s", 90, false},
		{"2h", 7200, false},
		{"1h30m", 5400, false},
		{"12.5s", 12.5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-3", 0, true},
		{"h m s", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
