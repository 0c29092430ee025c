package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
	if !strings.HasPrefix(info.String(), Version) {
		t.Errorf("String() = %v, want prefix %v", info.String(), Version)
	}
}
