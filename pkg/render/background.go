package render

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// LoadImage reads a background image from a file path or an http(s) URL.
// PNG, JPEG, WebP and BMP are supported.
func LoadImage(ctx context.Context, src string) (image.Image, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return fetchImage(ctx, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrap(err, "open background")
	}
	defer f.Close()
	return decodeImage(f, src)
}

func fetchImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "background request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch background")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch background %s: %s", url, resp.Status)
	}
	return decodeImage(resp.Body, url)
}

func decodeImage(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decode background %s", name)
	}
	return img, nil
}
