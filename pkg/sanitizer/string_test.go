package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Maria Müller  ",
			want:  "Maria Müller",
		},
		{
			name:  "multiple spaces between words",
			input: "Maria    Müller",
			want:  "Maria Müller",
		},
		{
			name:  "tabs and newlines",
			input: "Maria\t\nMüller",
			want:  "Maria Müller",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Dr. med. Großkopf-Öztürk ",
			want:  "Dr. med. Großkopf-Öztürk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase and trim",
			input: "  Anna.Schmidt@Example.COM ",
			want:  "anna.schmidt@example.com",
		},
		{
			name:  "already normalized",
			input: "anna@example.com",
			want:  "anna@example.com",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEmail(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNotes(t *testing.T) {
	input := "  first line\nsecond line  "
	want := "first line\nsecond line"
	if got := NormalizeNotes(input); got != want {
		t.Errorf("NormalizeNotes(%q) = %q, want %q", input, got, want)
	}
}
