package buildinfo

import (
	"strings"
	"testing"
)

func TestGetPrefersLdflags(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2024-01-01T00:00:00Z"

	got := Get()
	if got != (Info{Version: "v1.2.3", Commit: "abc123", Date: "2024-01-01T00:00:00Z"}) {
		t.Errorf("Get() = %+v", got)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "v1.2.3") || !strings.Contains(tmpl, "{{.Name}}") {
		t.Errorf("Template() = %q", tmpl)
	}
}

func TestGetDefaults(t *testing.T) {
	got := Get()
	if got.Version == "" || got.Commit == "" || got.Date == "" {
		t.Errorf("Get() left fields empty: %+v", got)
	}
}
