package pdf

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain",
			text: "This article: 10.1112/plms/s2-42.1.230 appears above.",
			want: "10.1112/plms/s2-42.1.230",
		},
		{
			name: "trailing punctuation trimmed",
			text: "see (doi: 10.1002/j.1538-7305.1948.tb01338.x).",
			want: "10.1002/j.1538-7305.1948.tb01338.x",
		},
		{
			name: "first of several",
			text: "10.1038/nature12373 then 10.1126/science.1236498",
			want: "10.1038/nature12373",
		},
		{
			name: "too short rejected",
			text: "version 10.0423/x here",
			want: "",
		},
		{
			name: "none",
			text: "no identifiers in this text at all",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1038/nature12373", true},
		{"10.1038/", false},
		{"11.1038/nature12373", false},
		{"10.1/x", false},
	}

	for _, tt := range tests {
		if got := isValidDOI(tt.doi); got != tt.want {
			t.Errorf("isValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}
