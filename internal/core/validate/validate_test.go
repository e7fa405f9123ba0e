package validate

import (
	"testing"
)

func TestTopicFilter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"everything", "#", false},
		{"plain topic", "home/kitchen/temp", false},
		{"single level wildcard", "home/+/temp", false},
		{"trailing multi level", "home/#", false},
		{"system topics", "$SYS/#", false},
		{"empty string", "", true},
		{"multi level in the middle", "home/#/temp", true},
		{"partial plus", "home/kit+/temp", true},
		{"partial hash", "home/temp#", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TopicFilter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("TopicFilter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestTopicName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "home/kitchen/temp", false},
		{"empty segments", "a//b", false},
		{"empty string", "", true},
		{"plus", "home/+", true},
		{"hash", "home/#", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TopicName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("TopicName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
