package testutil

import (
	"os"
	"strings"
	"testing"
)

func TestAssertNoError_NilErr(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertClose_WithinTolerance(t *testing.T) {
	AssertClose(t, "x", 1.0000001, 1.0, 1e-6)
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "fixture.dat", "1 2 3\n")

	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(data) != "1 2 3\n" {
		t.Errorf("content = %q", data)
	}
}

func TestStraightWorm(t *testing.T) {
	body := StraightWorm(2, 3)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "0 0 0 0 1 0 0 2 0 0" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "0.1 0 1 0 1 1 0 2 1 0" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if got := len(strings.Fields(lines[1])); got != 1+3*3 {
		t.Errorf("line 1 has %d columns, want 10", got)
	}
}
