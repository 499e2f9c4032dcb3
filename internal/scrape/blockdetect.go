package scrape

import "strings"

// BlockType describes why a page served no usable content.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockAuthWall   BlockType = "auth_wall"
)

var authWallMarkers = []string{
	"authwall",
	"login_required",
	"sign up to view",
	"join now to see",
	"please log in",
}

// DetectBlock inspects rendered HTML for anti-bot or login-wall markers.
func DetectBlock(html string) BlockType {
	lower := strings.ToLower(html)

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		(strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge")) {
		return BlockCloudflare
	}

	if strings.Contains(lower, "captcha") {
		return BlockCaptcha
	}

	for _, m := range authWallMarkers {
		if strings.Contains(lower, m) {
			return BlockAuthWall
		}
	}
	return BlockNone
}
