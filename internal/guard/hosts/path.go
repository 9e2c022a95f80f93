// Package hosts implements the hosts-file mutation engine: locating the
// platform hosts file, matching the tool's own block entries among arbitrary
// lines, and performing block/unblock edits without disturbing anything else
// in the file.
package hosts

import (
	"runtime"
	"sync"

	"gwd/internal/guard/domain"
)

// windowsHostsPath is the fixed location of the hosts file on Windows.
const windowsHostsPath = `C:\Windows\System32\drivers\etc\hosts`

// Locator resolves the absolute path of the platform hosts file once and
// replays the same result (or error) for the lifetime of the process. An
// explicit override makes the editor testable against a temp file instead of
// the real system file.
type Locator struct {
	override string
	goos     string

	once sync.Once
	path string
	err  error
}

// NewLocator returns a Locator for the running platform. If override is
// non-empty it is used verbatim instead of the platform default.
func NewLocator(override string) *Locator {
	return &Locator{override: override, goos: runtime.GOOS}
}

// Resolve returns the hosts-file path, computing it at most once. On an
// unsupported platform it fails with domain.UnsupportedOSError carrying the
// platform identifier, identically on every call.
func (l *Locator) Resolve() (string, error) {
	l.once.Do(func() {
		if l.override != "" {
			l.path = l.override
			return
		}
		l.path, l.err = platformHostsPath(l.goos)
	})
	return l.path, l.err
}

func platformHostsPath(goos string) (string, error) {
	switch goos {
	case "windows":
		return windowsHostsPath, nil
	case "linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "/etc/hosts", nil
	default:
		return "", &domain.UnsupportedOSError{OS: goos}
	}
}
