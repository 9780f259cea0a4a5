package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		in   Info
		bi   *debug.BuildInfo
		want Info
	}{
		{
			name: "no embedded info",
			in:   Info{Version: "dev", Commit: "none", Date: "unknown"},
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name: "unstamped build uses embedded info",
			in:   Info{Version: "dev", Commit: "none", Date: "unknown"},
			bi:   embedded,
			want: Info{Version: "v0.3.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z", Modified: true},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v1.0.0", Commit: "fff", Date: "2026-10-01"},
			bi:   embedded,
			want: Info{Version: "v1.0.0", Commit: "fff", Date: "2026-10-01", Modified: true},
		},
		{
			name: "devel main module keeps dev",
			in:   Info{Version: "dev", Commit: "none", Date: "unknown"},
			bi:   &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(tt.in, tt.bi); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	s := Info{Version: "v1", Commit: "abc", Date: "today", Modified: true}.String()
	for _, want := range []string{"version: v1", "commit: abc (modified)", "built: today"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
