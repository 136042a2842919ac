package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// decoder is an image format recognised by its leading bytes; '?' in magic
// matches any byte.
type decoder struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

// decoders are tried in order; TGA has no signature and is the fallback.
// Not image.Decode: tga registers an empty magic that matches every input.
var decoders = []decoder{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"gif", "GIF8", gif.Decode},
	{"webp", "RIFF????WEBPVP8", webp.Decode},
}

// decodeImage decodes r and returns the image with its format name.
func decodeImage(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)
	for _, d := range decoders {
		head, err := br.Peek(len(d.magic))
		if err != nil || !matchMagic(d.magic, head) {
			continue
		}
		img, err := d.decode(br)
		return img, d.name, err
	}
	img, err := tga.Decode(br)
	if err != nil {
		return nil, "", fmt.Errorf("unrecognized image format: %w", err)
	}
	return img, "tga", nil
}

func matchMagic(magic string, head []byte) bool {
	for i, b := range head {
		if magic[i] != b && magic[i] != '?' {
			return false
		}
	}
	return true
}

// cachedImage is a decoded image with the name of the format that read it.
type cachedImage struct {
	img    image.Image
	format string
}

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// Once an image is loaded, subsequent Load calls for the same path return the
// cached copy without disk I/O. Cached images stay in memory until Evict or
// Clear is called. Paths are used verbatim, so a relative and an absolute path
// to the same file are separate entries.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/data/m31.png")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
// Supported formats are PNG, JPEG, GIF, TGA and WebP.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := decodeImage(f)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	entry := cachedImage{img: img, format: format}
	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict removes the image loaded from path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that read the file: "png", "jpeg", "gif", "tga"
	// or "webp".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// MatchesHeader is false when the header declares NAXIS1/NAXIS2 that
	// differ from the image size. It is true when the header omits them.
	MatchesHeader bool `json:"matches_header"`
}

// LoadImageInfo loads the image at path and returns its metadata. When m is
// non-nil the image size is compared with the header's NAXIS1 and NAXIS2.
func LoadImageInfo(cache *ImageCache, path string, m *wcs.Mapper) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := entry.img.Bounds()
	hasAlpha := false
	colorDepth := "8-bit"
	switch entry.img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	info := &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
		MatchesHeader: true,
	}
	if m != nil {
		info.MatchesHeader = CheckSize(m, info.Width, info.Height) == nil
	}
	return info, nil
}

// CheckSize reports an error when the header declares an axis length that
// differs from the image size. Absent NAXIS1/NAXIS2 are not an error.
func CheckSize(m *wcs.Mapper, width, height int) error {
	cfg := m.Config()
	if n, ok := cfg.AxisLength(1); ok && n != width {
		return fmt.Errorf("header NAXIS1=%d does not match image width %d", n, width)
	}
	if n, ok := cfg.AxisLength(2); ok && n != height {
		return fmt.Errorf("header NAXIS2=%d does not match image height %d", n, height)
	}
	return nil
}
