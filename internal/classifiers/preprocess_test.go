package classifiers_test

import (
	"strings"
	"testing"

	"github.com/mindease/ai-service/internal/classifiers"
)

func TestRemoveLinks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"markdown link keeps anchor text",
			"read [this article](https://example.com/post) now",
			"read this article now",
		},
		{
			"bare url removed",
			"check https://example.com/page for details",
			"check  for details",
		},
		{
			"www url removed",
			"see www.example.com today",
			"see  today",
		},
		{
			"no links untouched",
			"nothing to strip here",
			"nothing to strip here",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifiers.RemoveLinks(tt.input); got != tt.want {
				t.Errorf("RemoveLinks(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvertMarkdownToText(t *testing.T) {
	got := classifiers.ConvertMarkdownToText("I feel *really* tired\n\nsee [here](https://example.com)")

	if strings.Contains(got, "https://") {
		t.Errorf("url survived preprocessing: %q", got)
	}
	if !strings.Contains(got, "really") || !strings.Contains(got, "tired") {
		t.Errorf("words lost during preprocessing: %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}
