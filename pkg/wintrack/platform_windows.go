//go:build windows

package wintrack

import (
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/query"
	"github.com/Norgate-AV/wintrack/internal/win32"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

func newOS(log logger.LoggerInterface) query.OS {
	return win32.NewOS(log)
}

func newBackend(log logger.LoggerInterface) winevent.Backend {
	return win32.NewBackend(log)
}
