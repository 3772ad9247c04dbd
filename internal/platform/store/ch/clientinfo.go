package ch

import (
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type product = struct{ Name, Version string }

// ClientInfo names this process in system.query_log: seqfeat at version,
// then the role ("seqfeat", "seqfeat-api") and the VCS revision when known
func ClientInfo(role, version string) clickhouse.ClientInfo {
	if version = strings.TrimSpace(version); version == "" {
		version = "dev"
	}
	ps := []product{{Name: "seqfeat", Version: version}}
	if role = strings.TrimSpace(role); role != "" {
		ps = append(ps, product{Name: "role", Version: role})
	}
	if rev := revision(); rev != "" {
		ps = append(ps, product{Name: "rev", Version: rev})
	}
	return clickhouse.ClientInfo{Products: ps}
}

// revision is the short vcs.revision stamped by the go tool, empty in tests
func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value[:min(7, len(s.Value))]
		}
	}
	return ""
}
