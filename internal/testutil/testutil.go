// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertClose fails the test if got and want differ by more than tol.
func AssertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %g, want %g (tol %g)", name, got, want, tol)
	}
}

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// StraightWorm returns a trajectory file body with the given timesteps and
// segments: segment s sits at x=s, y=t with heading 0.
func StraightWorm(timesteps, segments int) string {
	buf := make([]byte, 0, timesteps*segments*12)
	for t := 0; t < timesteps; t++ {
		buf = appendFloat(buf, float64(t)*0.1)
		for s := 0; s < segments; s++ {
			buf = append(buf, ' ')
			buf = appendFloat(buf, float64(s))
			buf = append(buf, ' ')
			buf = appendFloat(buf, float64(t))
			buf = append(buf, " 0"...)
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
