package watch

import "testing"

func TestDataFiles(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/data/.nihulit/tasks.yaml", true},
		{"payments.yaml", true},
		{"/data/.nihulit/tasks.yaml.tmp", false},
		{"/data/.nihulit/.tasks.yaml.swp", false},
		{"/data/.nihulit/.hidden.yaml", false},
		{"/data/.nihulit/notes.txt", false},
	}
	for _, tt := range tests {
		if got := DataFiles.Matches(tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFilter_EmptyIncludeMatchesAll(t *testing.T) {
	f := Filter{Exclude: []string{"*.log"}}
	if !f.Matches("a.json") || f.Matches("debug.log") {
		t.Error("exclude-only filter should pass everything but excluded names")
	}
}
