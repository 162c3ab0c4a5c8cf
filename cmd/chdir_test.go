package cmd

import (
	"os"
	"testing"
)

// chdirTemp changes into a fresh temp directory for the duration of the
// test; testing.T.Chdir is unavailable before Go 1.24.
func chdirTemp(t *testing.T) {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
