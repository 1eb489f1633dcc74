//go:build windows

package win32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/window"
)

func TestOS_WindowText(t *testing.T) {
	o := NewOS(logger.NewNoOpLogger())

	var titled []string
	err := o.EnumTopLevelWindows(func(h window.Handle) bool {
		if title := o.WindowText(h); title != "" {
			titled = append(titled, title)
		}
		return true
	})
	require.NoError(t, err)

	assert.NotEmpty(t, titled, "A desktop session has at least one titled top-level window")
	for _, title := range titled {
		assert.NotContains(t, title, "\x00")
	}

	assert.Empty(t, o.WindowText(0xFFFFFFF0), "A dead handle has no title")
}
