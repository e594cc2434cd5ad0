package syntax

import (
	"reflect"
	"testing"
)

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "single flag",
			input: "h",
			want:  map[string]string{"h": ""},
		},
		{
			name:  "key value pairs",
			input: "label=lst:a, language=Go",
			want:  map[string]string{"label": "lst:a", "language": "Go"},
		},
		{
			name:  "braced value with comma",
			input: "caption={One, two}, label={fig:x}",
			want:  map[string]string{"caption": "One, two", "label": "fig:x"},
		},
		{
			name:  "adjacent groups keep braces",
			input: "title={a}{b}",
			want:  map[string]string{"title": "{a}{b}"},
		},
		{
			name:  "escaped comma does not split",
			input: `note=a\,b`,
			want:  map[string]string{"note": `a\,b`},
		},
		{
			name:  "blank items and keys skipped",
			input: " , =x, key = value ",
			want:  map[string]string{"key": "value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseKeyValues(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeyValues(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
