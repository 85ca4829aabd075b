package language

import "testing"

func TestFromTag(t *testing.T) {
	tests := []struct {
		tag      string
		wantTag  string
		wantName string
	}{
		{"en-US", "en-US", "English (US)"},
		{"hi-IN", "hi-IN", "Hindi"},
		{"zh-CN", "zh-CN", "Chinese (Simplified)"},
		{"invalid", "en-US", "English (US)"},
		{"", "en-US", "English (US)"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := FromTag(tt.tag)
			if got.Tag != tt.wantTag {
				t.Errorf("FromTag(%q).Tag = %q, want %q", tt.tag, got.Tag, tt.wantTag)
			}
			if got.Name != tt.wantName {
				t.Errorf("FromTag(%q).Name = %q, want %q", tt.tag, got.Name, tt.wantName)
			}
		})
	}
}

func TestIsValidTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"en-US", true},
		{"ta-IN", true},
		{"fr-FR", true},
		{"en", false},
		{"", false},
		{"xx-XX", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := IsValidTag(tt.tag); got != tt.want {
				t.Errorf("IsValidTag(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestListIsACopy(t *testing.T) {
	first := List()
	first[0].Name = "mutated"

	second := List()
	if second[0].Name == "mutated" {
		t.Error("List() must return a copy, not the backing slice")
	}
}

func TestTagsMatchList(t *testing.T) {
	tags := Tags()
	list := List()
	if len(tags) != len(list) {
		t.Fatalf("Tags() has %d entries, List() has %d", len(tags), len(list))
	}
	for i, lang := range list {
		if tags[i] != lang.Tag {
			t.Errorf("Tags()[%d] = %q, want %q", i, tags[i], lang.Tag)
		}
	}
}
