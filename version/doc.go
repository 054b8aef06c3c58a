// Package version reports build information for the classroom binary.
//
// Release builds set the values with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/classroom/version.Version=1.2.3 \
//	  -X github.com/ncobase/classroom/version.Revision=$(git rev-parse --short HEAD) \
//	  -X github.com/ncobase/classroom/version.BuiltAt=$(date -u +%FT%TZ)" ./cmd/classroom
//
// Without them the VCS stamp embedded by the go tool is used.
package version
