package out

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	authout "lectern/internal/modules/auth/port/out"
)

type OSBrowserLauncher struct{}

func NewOSBrowserLauncher() authout.BrowserLauncher {
	return &OSBrowserLauncher{}
}

func (l *OSBrowserLauncher) Open(_ context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("opening a browser is not supported on %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
