package core

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/disintegration/imaging"
)

const (
	logoFetchTimeout = 10 * time.Second
	logoMaxWidth     = 384
)

// LogoFetcher retrieves a remote logo into a local file ready for raster
// printing. The returned cleanup releases the file; the resource is scoped to
// a single render so concurrent jobs cannot clobber each other.
type LogoFetcher func(url string) (path string, cleanup func(), err error)

func FetchLogo(url string) (string, func(), error) {
	client := &http.Client{Timeout: logoFetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", nil, fmt.Errorf("failed to fetch logo: status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode logo: %w", err)
	}

	if img.Bounds().Dx() > logoMaxWidth {
		img = imaging.Resize(img, logoMaxWidth, 0, imaging.Lanczos)
	}
	gray := imaging.Grayscale(img)

	f, err := os.CreateTemp("", "printd-logo-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create logo file: %w", err)
	}

	if err := imaging.Encode(f, gray, imaging.PNG); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to encode logo: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}

	path := f.Name()
	return path, func() { os.Remove(path) }, nil
}
