package common

import (
	"github.com/ternarybob/banner"
)

// PrintBanner displays the server banner.
func PrintBanner(version string) {
	banner.PrintSimple("Pickboard", version)
}
