package bot

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// DefaultImageCheckTimeout bounds the HEAD request made for image URLs.
const DefaultImageCheckTimeout = 5 * time.Second

var imageURLPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|webp)$`)

// ImageChecker decides whether a tour image reference can be sent as a photo.
type ImageChecker struct {
	client  *http.Client
	timeout time.Duration
}

// NewImageChecker builds an ImageChecker. A nil client selects http.DefaultClient.
func NewImageChecker(client *http.Client, timeout time.Duration) *ImageChecker {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultImageCheckTimeout
	}
	return &ImageChecker{client: client, timeout: timeout}
}

// Photo resolves src to a file: an existing local file is uploaded, an
// http(s) URL with an image extension is used when it answers HEAD with 200.
func (ic *ImageChecker) Photo(ctx context.Context, src string) (tele.File, bool) {
	src = strings.TrimSpace(src)
	if ic == nil || src == "" {
		return tele.File{}, false
	}
	if info, err := os.Stat(src); err == nil && info.Mode().IsRegular() {
		return tele.FromDisk(src), true
	}
	if !imageURLPattern.MatchString(src) {
		return tele.File{}, false
	}
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return tele.File{}, false
	}
	if !ic.reachable(ctx, src) {
		return tele.File{}, false
	}
	return tele.FromURL(src), true
}

func (ic *ImageChecker) reachable(ctx context.Context, src string) bool {
	ctx, cancel := context.WithTimeout(ctx, ic.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
	if err != nil {
		return false
	}
	resp, err := ic.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
