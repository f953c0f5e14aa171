package config

import "testing"

func TestFoldDigitFlags(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		want    []string
		wantErr bool
	}{
		{
			name: "no digit flags",
			argv: []string{"-i", "pattern"},
			want: []string{"-i", "pattern"},
		},
		{
			name: "single digit flag",
			argv: []string{"-5", "pattern"},
			want: []string{"pattern", "--context=5"},
		},
		{
			name: "split across tokens accumulates",
			argv: []string{"-1", "-2", "pattern"},
			want: []string{"pattern", "--context=12"},
		},
		{
			name: "leading zeros folded",
			argv: []string{"-007", "pattern"},
			want: []string{"pattern", "--context=7"},
		},
		{
			name: "digits after -- are literal",
			argv: []string{"--", "-5"},
			want: []string{"--", "-5"},
		},
		{
			name:    "oversize digit run is fatal",
			argv:    []string{"-1234567890", "pattern"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := foldDigitFlags(tt.argv)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestIsDigitFlag(t *testing.T) {
	cases := map[string]bool{
		"-5":     true,
		"-0":     true,
		"-12":    true,
		"-":      false,
		"-i":     false,
		"-5i":    false,
		"pattern": false,
	}
	for tok, want := range cases {
		if got := isDigitFlag(tok); got != want {
			t.Errorf("isDigitFlag(%q) = %v, want %v", tok, got, want)
		}
	}
}
