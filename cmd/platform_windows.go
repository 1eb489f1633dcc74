//go:build windows

package cmd

import (
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/procinfo"
	"github.com/Norgate-AV/wintrack/internal/query"
	"github.com/Norgate-AV/wintrack/internal/win32"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

func defaultPlatform(log logger.LoggerInterface) (*platform, error) {
	return &platform{
		query:  query.New(win32.NewOS(log), log),
		events: winevent.NewManager(win32.NewBackend(log), log),
		namer:  procinfo.NewNamer(log),
	}, nil
}

func isElevated() bool {
	return win32.IsElevated()
}

// installConsoleHandler routes console control events to onEvent. The event
// counts as handled once onEvent returns.
func installConsoleHandler(onEvent func(name string, code uint32)) error {
	return win32.SetConsoleCtrlHandler(func(ctrlType uint32) uintptr {
		onEvent(win32.GetCtrlTypeName(ctrlType), ctrlType)
		return 1
	})
}
