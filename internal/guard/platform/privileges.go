// Package platform holds the privilege precondition check run before any
// hosts-file mutation. It is advisory: the editor's own open failures remain
// the authoritative source of truth for permissions.
package platform

import (
	"os"
	"runtime"

	"gwd/internal/guard/common/log"
	"gwd/internal/guard/domain"
)

// CheckPrivileges verifies the process can plausibly mutate the hosts file at
// hostsPath. On unix-family systems the effective UID must be root; on
// Windows the file is probe-opened for writing. Unknown platforms log a
// warning and pass.
func CheckPrivileges(hostsPath string, logger log.Logger) error {
	return checkPrivileges(runtime.GOOS, hostsPath, logger)
}

func checkPrivileges(goos, hostsPath string, logger log.Logger) error {
	switch goos {
	case "windows":
		f, err := os.OpenFile(hostsPath, os.O_WRONLY, 0)
		if err != nil {
			if os.IsPermission(err) {
				return &domain.PermissionError{Path: hostsPath}
			}
			return &domain.WriteError{Path: hostsPath, Cause: err.Error()}
		}
		return f.Close()
	case "linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly":
		if os.Geteuid() != 0 {
			return &domain.PermissionError{Path: hostsPath}
		}
		return nil
	default:
		logger.Warn(map[string]any{"os": goos}, "cannot reliably check privileges on this platform")
		return nil
	}
}
