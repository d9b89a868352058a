package formatting

import "testing"

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{
			name:  "bare number",
			input: "1024",
			want:  1024,
		},
		{
			name:  "megabytes",
			input: "10MB",
			want:  10 * 1024 * 1024,
		},
		{
			name:  "lowercase unit",
			input: "2gb",
			want:  2 * 1024 * 1024 * 1024,
		},
		{
			name:  "space before unit",
			input: "512 KB",
			want:  512 * 1024,
		},
		{
			name:  "fractional value",
			input: "1.5KB",
			want:  1536,
		},
		{
			name:  "bytes unit",
			input: "42B",
			want:  42,
		},
		{
			name:  "surrounding whitespace",
			input: "  10MB  ",
			want:  10 * 1024 * 1024,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "unknown unit",
			input:   "10XB",
			wantErr: true,
		},
		{
			name:    "negative value",
			input:   "-5MB",
			wantErr: true,
		},
		{
			name:    "unit only",
			input:   "MB",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
