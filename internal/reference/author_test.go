package reference

import "testing"

func TestAuthorName(t *testing.T) {
	tests := []struct {
		author Author
		want   string
	}{
		{Author{Given: "Alan", Family: "Turing"}, "Alan Turing"},
		{Author{Family: "Bourbaki"}, "Bourbaki"},
		{Author{}, ""},
	}

	for _, tt := range tests {
		if got := tt.author.Name(); got != tt.want {
			t.Errorf("%+v.Name() = %q, want %q", tt.author, got, tt.want)
		}
	}
}

func TestJoinAuthors(t *testing.T) {
	authors := []Author{
		{Given: "Alan", Family: "Turing"},
		{Given: "Alonzo", Family: "Church"},
	}
	if got := JoinAuthors(authors); got != "Alan Turing and Alonzo Church" {
		t.Errorf("JoinAuthors() = %q", got)
	}
	if got := JoinAuthors(nil); got != "" {
		t.Errorf("JoinAuthors(nil) = %q", got)
	}
}
