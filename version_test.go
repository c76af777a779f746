package lattice

import "testing"

func TestCurrent_Parses(t *testing.T) {
	if _, ok := Current(); !ok {
		t.Fatalf("embedded version must be semver: got %q", Version())
	}
}

func TestParseSemver(t *testing.T) {
	cases := []struct {
		version string
		want    Semver
		ok      bool
	}{
		{version: "0.1.0", want: Semver{Minor: 1}, ok: true},
		{version: "1.2.3-alpha.1", want: Semver{Major: 1, Minor: 2, Patch: 3, Pre: "alpha.1"}, ok: true},
		{version: "2.0.0+build.7", want: Semver{Major: 2}, ok: true},
		{version: "v1.2.3"},
		{version: "1.2"},
		{version: "01.2.3"},
	}

	for _, tc := range cases {
		got, ok := ParseSemver(tc.version)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseSemver(%q): got %+v %v, want %+v %v", tc.version, got, ok, tc.want, tc.ok)
		}
	}
}
