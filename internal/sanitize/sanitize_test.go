package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<b>Lestat</b>", "Lestat"},
		{"  Lestat  ", "Lestat"},
		{"Hola<script>alert(1)</script>", "Hola"},
		{"<img src=x onerror=alert(1)>Claudia", "Claudia"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Strip(tc.in), "input %q", tc.in)
	}
}

func TestStripAllDropsEmptied(t *testing.T) {
	got := StripAll([]string{" <i>Vuelo</i> ", "<p></p>", "", "Hipnosis"})
	require.Equal(t, []string{"Vuelo", "Hipnosis"}, got)
}

func TestStripAllAllEmptyIsNil(t *testing.T) {
	require.Nil(t, StripAll([]string{"", "  ", "<br>"}))
}
