package winpipe

import "testing"

func TestPath(t *testing.T) {
    cases := map[string]string{
        "cvClient":             `\\.\pipe\cvClient`,
        `\annotator`:           `\\.\pipe\annotator`,
        `\\.\pipe\already`:     `\\.\pipe\already`,
        "nested/name":          `\\.\pipe\nested/name`,
    }
    for in, want := range cases {
        if got := Path(in); got != want {
            t.Fatalf("Path(%q) = %q, want %q", in, got, want)
        }
    }
}
