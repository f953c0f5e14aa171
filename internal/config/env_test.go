package config

import (
	"reflect"
	"testing"
)

func TestSplitEscaped(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "-i -n", []string{"-i", "-n"}},
		{"multiple spaces", "-i   -n", []string{"-i", "-n"}},
		{"escaped space", `-e foo\ bar`, []string{"-e", "foo bar"}},
		{"escaped backslash", `-e foo\\bar`, []string{"-e", `foo\bar`}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitEscaped(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitEscaped(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithEnvDefaultsNoEnv(t *testing.T) {
	argv := []string{"-i", "pattern"}
	got := withEnvDefaults(argv)
	if !reflect.DeepEqual(got, argv) {
		t.Errorf("expected unchanged argv, got %v", got)
	}
}
