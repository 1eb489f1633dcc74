//go:build !windows

package cmd

import (
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/pkg/wintrack"
)

func defaultPlatform(_ logger.LoggerInterface) (*platform, error) {
	return nil, wintrack.ErrUnsupported
}

func isElevated() bool {
	return false
}

func installConsoleHandler(func(name string, code uint32)) error {
	return nil
}
