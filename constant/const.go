package constant

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
)

var (
	//go:embed version
	version string
	Version = strings.TrimSpace(version)

	// Overridden at build time with -ldflags "-X github.com/xeptore/aliscan/constant.compileTime=...".
	compileTime = "2026-10-01T00:00:00Z"
	CompileTime time.Time
)

func init() {
	t, err := time.Parse(time.RFC3339, compileTime)
	if nil != err {
		panic(fmt.Errorf("could not parse compileTime constant %q. Make sure it is set in RFC3339 format at build time", compileTime))
	}
	CompileTime = t
}
