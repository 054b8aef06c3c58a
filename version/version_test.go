package version

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLinkedValuesWin(t *testing.T) {
	oldV, oldR := Version, Revision
	t.Cleanup(func() { Version, Revision = oldV, oldR })

	Version, Revision = "1.2.3", "abc123"
	info := GetVersionInfo()
	if info.Version != "1.2.3" || info.Revision != "abc123" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestStringAndJSON(t *testing.T) {
	info := Info{Version: "1.0.0", GoVersion: "go1.24", Modified: true, Revision: "deadbeef"}

	s := info.String()
	if !strings.Contains(s, "Revision: deadbeef-dirty") || !strings.Contains(s, "Built At: unknown") {
		t.Errorf("unexpected string %q", s)
	}

	out, err := info.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var back Info
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatal(err)
	}
	if back.Version != "1.0.0" {
		t.Errorf("got %q", back.Version)
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("got %q", got)
	}
}
