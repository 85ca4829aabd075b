package notify

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		kind    string
		want    Notifier
	}{
		{"disabled", false, "desktop", Nop{}},
		{"log", true, "log", Log{}},
		{"none", true, "none", Nop{}},
		{"desktop", true, "desktop", Desktop{}},
		{"default", true, "", Desktop{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.enabled, tt.kind); got != tt.want {
				t.Errorf("New(%v, %q) = %T, want %T", tt.enabled, tt.kind, got, tt.want)
			}
		})
	}
}

func TestNopDoesNothing(t *testing.T) {
	n := Nop{}
	n.ListeningChanged(true)
	n.ListeningChanged(false)
	n.Error("ignored")
}
