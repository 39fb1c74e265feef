package shell

import "testing"

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "''"},
		{"make", "make"},
		{"--jobs=4", "--jobs=4"},
		{"/opt/bf-sde/install", "/opt/bf-sde/install"},
		{"-DP4FLAGS=-g --verbose", "'-DP4FLAGS=-g --verbose'"},
		{"it's", `'it'"'"'s'`},
		{"$HOME", "'$HOME'"},
		{"^switch", "'^switch'"},
		{"a\nb", "'a\nb'"},
		{"naïve", "'naïve'"},
	}
	for _, tc := range tests {
		if got := Quote(tc.in); got != tc.want {
			t.Errorf("Quote(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestJoin(t *testing.T) {
	got := Join([]string{"p4studio", "configure", "^switch", "grpc", "--p4flags", "-g -Xp4c"})
	want := "p4studio configure '^switch' grpc --p4flags '-g -Xp4c'"
	if got != want {
		t.Errorf("Join = %s\nwant   %s", got, want)
	}
	if Join(nil) != "" {
		t.Errorf("Join(nil) = %q, want empty", Join(nil))
	}
}
