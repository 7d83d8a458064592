package metadata

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // poster decoding
	_ "image/png"  // poster decoding
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/reeltv/reeltv/internal/media"
)

var (
	ErrInvalidURL     = errors.New("invalid artwork URL")
	ErrDownloadFailed = errors.New("artwork download failed")
	ErrDecodeFailed   = errors.New("artwork is not a decodable image")
)

// ArtworkType represents the type of artwork.
type ArtworkType string

const (
	ArtworkTypePoster   ArtworkType = "poster"
	ArtworkTypeBackdrop ArtworkType = "backdrop"
)

// Image sizes requested from the TMDb image CDN.
const (
	PosterSize   = "w500"
	BackdropSize = "w1280"
)

// URLResolver turns a TMDb image path into a full URL.
type URLResolver func(path, size string) string

// Bitmap describes a locally stored, successfully decoded image.
type Bitmap struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageLoader downloads artwork into a local directory and decodes it.
type ImageLoader struct {
	baseDir    string
	resolve    URLResolver
	fs         afero.Fs
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewImageLoader creates an image loader storing files under baseDir.
func NewImageLoader(baseDir string, resolve URLResolver, timeout time.Duration, logger zerolog.Logger) *ImageLoader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ImageLoader{
		baseDir: baseDir,
		resolve: resolve,
		fs:      afero.NewOsFs(),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "artwork").Logger(),
	}
}

// WithFs stores artwork on fs instead of the OS filesystem.
func (l *ImageLoader) WithFs(fs afero.Fs) *ImageLoader {
	l.fs = fs
	return l
}

// LoadBitmap makes sure the work's artwork of the given type is on disk and
// decodes its header. Files already present are reused.
func (l *ImageLoader) LoadBitmap(ctx context.Context, w media.Work, artworkType ArtworkType) (*Bitmap, error) {
	imgPath, size := w.PosterPath, PosterSize
	if artworkType == ArtworkTypeBackdrop {
		imgPath, size = w.BackdropPath, BackdropSize
	}
	if imgPath == "" {
		return nil, fmt.Errorf("%w: %s %d has no %s", ErrInvalidURL, w.Type, w.ID, artworkType)
	}

	path := l.Path(w.Type, w.ID, artworkType)
	if path == "" {
		var err error
		path, err = l.Download(ctx, l.resolve(imgPath, size), w.Type, w.ID, artworkType)
		if err != nil {
			return nil, err
		}
	}

	bmp, err := l.decodeBitmap(path)
	if err != nil {
		// Drop the broken file so the next attempt downloads it again.
		l.fs.Remove(path)
		return nil, err
	}
	return bmp, nil
}

// Download downloads artwork from a URL and saves it locally.
// Returns the local file path on success.
func (l *ImageLoader) Download(ctx context.Context, url string, mediaType media.Type, mediaID int, artworkType ArtworkType) (string, error) {
	if url == "" {
		return "", ErrInvalidURL
	}

	ext := extension(url)
	if ext == "" {
		ext = ".jpg"
	}

	// {baseDir}/{mediaType}/{id}_{artworkType}{ext}, e.g. data/artwork/movie/603_poster.jpg
	dir := filepath.Join(l.baseDir, string(mediaType))
	destPath := filepath.Join(dir, fmt.Sprintf("%d_%s%s", mediaID, artworkType, ext))

	if err := l.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	tmp, err := afero.TempFile(l.fs, dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		l.fs.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := l.fs.Rename(tmp.Name(), destPath); err != nil {
		l.fs.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	l.logger.Debug().
		Str("url", url).
		Str("path", destPath).
		Int64("bytes", written).
		Msg("Artwork downloaded")

	return destPath, nil
}

// Path returns the local path for artwork if it exists, or "".
func (l *ImageLoader) Path(mediaType media.Type, mediaID int, artworkType ArtworkType) string {
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		path := filepath.Join(l.baseDir, string(mediaType), fmt.Sprintf("%d_%s%s", mediaID, artworkType, ext))
		if _, err := l.fs.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (l *ImageLoader) decodeBitmap(path string) (*Bitmap, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecodeFailed)
	}

	return &Bitmap{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// extension extracts a known image extension from a URL.
func extension(url string) string {
	filename := url[strings.LastIndex(url, "/")+1:]
	if qmark := strings.Index(filename, "?"); qmark != -1 {
		filename = filename[:qmark]
	}

	if dot := strings.LastIndex(filename, "."); dot != -1 {
		switch ext := strings.ToLower(filename[dot:]); ext {
		case ".jpg", ".jpeg", ".png":
			return ext
		}
	}
	return ""
}
