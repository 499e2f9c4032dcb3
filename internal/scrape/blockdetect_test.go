package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock_Cloudflare(t *testing.T) {
	html := "<html><body>Checking your browser before accessing acme.example</body></html>"
	assert.Equal(t, BlockCloudflare, DetectBlock(html))

	html = `<html><body><div id="cf-browser-verification"></div></body></html>`
	assert.Equal(t, BlockCloudflare, DetectBlock(html))
}

func TestDetectBlock_CaptchaInBody(t *testing.T) {
	html := "<html><body>Please complete the reCAPTCHA to continue</body></html>"
	assert.Equal(t, BlockCaptcha, DetectBlock(html))
}

func TestDetectBlock_AuthWall(t *testing.T) {
	html := `<html><body><a href="https://www.linkedin.com/authwall?trk=x">Join now to see</a></body></html>`
	assert.Equal(t, BlockAuthWall, DetectBlock(html))
}

func TestDetectBlock_CleanPage(t *testing.T) {
	html := "<html><body>Welcome to Acme Corp. We build great products.</body></html>"
	assert.Equal(t, BlockNone, DetectBlock(html))
	assert.Equal(t, BlockNone, DetectBlock(""))
}
