package indicator

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nfnt/resize"
)

// ErrIconNotFound is returned when no theme root holds the asset.
var ErrIconNotFound = errors.New("icon not found")

const defaultCacheSize = 16

type iconKey struct {
	name string
	size int
}

// ThemeLoader finds PNG icons in freedesktop-style theme directories.
// For each root it tries, in order:
//
//	<root>/<N>x<N>/<name>.png
//	<root>/<N>x<N>/apps/<name>.png
//	<root>/<N>x<N>/status/<name>.png
//
// When no exact size exists, the largest PNG found under any root (or a
// bare <root>/<name>.png) is scaled to N×N.
type ThemeLoader struct {
	roots []string
	cache *lru.Cache[iconKey, *Icon]
}

// NewThemeLoader creates a loader over roots with an LRU of cacheSize icons.
func NewThemeLoader(roots []string, cacheSize int) (*ThemeLoader, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[iconKey, *Icon](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create icon cache: %w", err)
	}
	return &ThemeLoader{
		roots: append([]string(nil), roots...),
		cache: cache,
	}, nil
}

// LoadIcon implements IconLoader.
func (l *ThemeLoader) LoadIcon(name string, size int) (*Icon, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}

	key := iconKey{name: name, size: size}
	if icon, ok := l.cache.Get(key); ok {
		return icon, nil
	}

	icon, err := l.resolve(name, size)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, icon)
	return icon, nil
}

// Purge drops every cached icon, e.g. after the theme roots changed on disk.
func (l *ThemeLoader) Purge() {
	l.cache.Purge()
}

func (l *ThemeLoader) resolve(name string, size int) (*Icon, error) {
	file := name + ".png"
	dim := fmt.Sprintf("%dx%d", size, size)

	for _, root := range l.roots {
		for _, p := range []string{
			filepath.Join(root, dim, file),
			filepath.Join(root, dim, "apps", file),
			filepath.Join(root, dim, "status", file),
		} {
			data, err := os.ReadFile(p)
			if err == nil {
				return &Icon{Name: name, Size: size, Data: data}, nil
			}
		}
	}

	src, err := l.largest(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %dpx", err, name, size)
	}
	data, err := scalePNG(src, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale %s: %w", src, err)
	}
	return &Icon{Name: name, Size: size, Data: data}, nil
}

// largest returns the path of the widest PNG named file under any root.
func (l *ThemeLoader) largest(file string) (string, error) {
	best, bestWidth := "", 0

	for _, root := range l.roots {
		var candidates []string
		for _, pattern := range []string{
			filepath.Join(root, "*x*", file),
			filepath.Join(root, "*x*", "*", file),
		} {
			matches, _ := filepath.Glob(pattern)
			candidates = append(candidates, matches...)
		}
		candidates = append(candidates, filepath.Join(root, file))

		for _, c := range candidates {
			w, err := pngWidth(c)
			if err != nil {
				continue
			}
			if w > bestWidth {
				best, bestWidth = c, w
			}
		}
	}

	if best == "" {
		return "", ErrIconNotFound
	}
	return best, nil
}

func pngWidth(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, err
	}
	return cfg.Width, nil
}

func scalePNG(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	var scaled image.Image = img
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		scaled = resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
