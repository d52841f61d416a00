package mqtt

import "testing"

func TestTopicsMatch(t *testing.T) {
	tests := []struct {
		filter string
		topic  string
		want   bool
	}{
		{"fleet/v1/telemetry/ABC1234", "fleet/v1/telemetry/ABC1234", true},
		{"fleet/v1/telemetry/+", "fleet/v1/telemetry/ABC1234", true},
		{"fleet/v1/telemetry/+", "fleet/v1/register/ABC1234", false},
		{"fleet/v1/telemetry/+", "fleet/v1/telemetry/ABC1234/extra", false},
		{"fleet/v1/#", "fleet/v1/telemetry/ABC1234", true},
		{"fleet/v1/#", "other/v1/telemetry", false},
		{"+/v1/telemetry/+", "fleet/v1/telemetry/ABC1234", true},
		{"fleet/v1/telemetry", "fleet/v1/telemetry/ABC1234", false},
	}

	for _, tt := range tests {
		if got := topicsMatch(tt.filter, tt.topic); got != tt.want {
			t.Errorf("topicsMatch(%q, %q) = %v, want %v", tt.filter, tt.topic, got, tt.want)
		}
	}
}

func TestTopicFilter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$share/hub/fleet/v1/telemetry/+", "fleet/v1/telemetry/+"},
		{"fleet/v1/telemetry/+", "fleet/v1/telemetry/+"},
	}

	for _, tt := range tests {
		if got := topicFilter(tt.in); got != tt.want {
			t.Errorf("topicFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
