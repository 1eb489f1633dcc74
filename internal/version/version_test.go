package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Norgate-AV/wintrack/internal/version"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, version.GetVersion(), info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Date)
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	info := version.Info{Version: "v0.3.1", Commit: "abc1234", Date: "2026-10-01"}
	assert.Equal(t, "v0.3.1 (commit: abc1234, built: 2026-10-01)", info.String())
}

func TestVersionFormat(t *testing.T) {
	t.Parallel()

	v := version.GetVersion()
	if v != "dev" {
		assert.Regexp(t, `^v?\d+\.\d+\.\d+`, v)
	}
}
