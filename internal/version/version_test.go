package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestString_OptionalFields(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	Version = "1.2.3"
	GitCommit = ""
	BuildDate = ""
	if got := String(); got != "apisect 1.2.3" {
		t.Fatalf("String() = %q", got)
	}

	GitCommit = "1234567890abcdef1234567890abcdef12345678"
	BuildDate = "2024-01-15T10:30:00Z"
	got := String()
	if !strings.Contains(got, "(1234567890ab)") || !strings.HasSuffix(got, "built 2024-01-15T10:30:00Z") {
		t.Fatalf("String() = %q", got)
	}
}

// BenchmarkVersionAccess benchmarks rendering the version line
func BenchmarkVersionAccess(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = String()
	}
}
