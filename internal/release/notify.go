package release

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Notifier opens the release page for the human operator. Strictly
// cosmetic: callers log failures and move on.
type Notifier interface {
	OpenReleasePage(tag string) error
}

// Browser opens URLs with the platform opener. BaseURL is the repository's
// web URL, e.g. "https://github.com/owner/name".
type Browser struct {
	BaseURL string
}

var _ Notifier = (*Browser)(nil)

func (b *Browser) OpenReleasePage(tag string) error {
	url := fmt.Sprintf("%s/releases/tag/%s", b.BaseURL, tag)
	return openURL(url)
}

func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	// Release the child; we only care that the handoff happened.
	return cmd.Process.Release()
}
