package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "no commit",
			info: Info{Version: "dev", Commit: unknown, Date: unknown, GoVersion: "go1.25.1", Platform: "linux/amd64"},
			want: "recolour version dev (go1.25.1, linux/amd64)",
		},
		{
			name: "commit is shortened",
			info: Info{Version: "1.2.0", Commit: "0123456789abcdef", Date: "2026-01-01T00:00:00Z", GoVersion: "go1.25.1", Platform: "darwin/arm64"},
			want: "recolour version 1.2.0 (commit: 01234567, built: 2026-01-01T00:00:00Z, go1.25.1, darwin/arm64)",
		},
		{
			name: "modified tree",
			info: Info{Version: "dev", Commit: "abc", Date: "2026-01-01T00:00:00Z", Modified: true, GoVersion: "go1.25.1", Platform: "linux/amd64"},
			want: "recolour version dev (commit: abc-dirty, built: 2026-01-01T00:00:00Z, go1.25.1, linux/amd64)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetInfoPrefersInjectedValues(t *testing.T) {
	origCommit, origDate := Commit, Date
	defer func() { Commit, Date = origCommit, origDate }()

	Commit, Date = "feedface", "2026-02-03T04:05:06Z"
	info := GetInfo()
	if info.Commit != "feedface" || info.Date != "2026-02-03T04:05:06Z" {
		t.Errorf("GetInfo() = %+v, want injected commit and date", info)
	}
	if !strings.HasPrefix(String(), "recolour version "+Version) {
		t.Errorf("String() = %q", String())
	}
}
