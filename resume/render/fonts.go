package render

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Faces holds one face per text role.
type Faces struct {
	Title  font.Face
	Header font.Face
	Body   font.Face
}

// FallbackFaces uses the built-in 7x13 bitmap face for every role.
func FallbackFaces() Faces {
	return Faces{
		Title:  basicfont.Face7x13,
		Header: basicfont.Face7x13,
		Body:   basicfont.Face7x13,
	}
}

// FontSource is a parsed outline font. A nil *FontSource yields FallbackFaces.
type FontSource struct {
	Path string
	font *opentype.Font
}

// LoadFontSource resolves name (an absolute path, a path relative to the
// working directory, or a bare file name searched in the system font
// directories) and parses it as TrueType/OpenType.
func LoadFontSource(name string) (*FontSource, error) {
	path, err := resolveFontPath(name)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &FontSource{Path: path, font: parsed}, nil
}

// Faces builds fresh faces at the title, header and body sizes. Outline
// faces keep per-face scratch buffers, so callers must not share them across
// goroutines.
func (s *FontSource) Faces() (Faces, error) {
	if s == nil || s.font == nil {
		return FallbackFaces(), nil
	}
	title, err := s.face(TitleSize)
	if err != nil {
		return Faces{}, err
	}
	header, err := s.face(HeaderSize)
	if err != nil {
		return Faces{}, err
	}
	body, err := s.face(BodySize)
	if err != nil {
		return Faces{}, err
	}
	return Faces{Title: title, Header: header, Body: body}, nil
}

// Close releases the faces. Closing the bitmap fallback is a no-op.
func (f Faces) Close() {
	for _, face := range []font.Face{f.Title, f.Header, f.Body} {
		if face != nil {
			_ = face.Close()
		}
	}
}

func (s *FontSource) face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %s@%v: %w", s.Path, size, err)
	}
	return face, nil
}

func resolveFontPath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("font path is empty")
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		return "", fmt.Errorf("font %s: %w", name, os.ErrNotExist)
	}
	for _, dir := range fontDirs() {
		var found string
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), name) {
				found = path
				return filepath.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("font %s: %w", name, os.ErrNotExist)
}

func fontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	case "darwin":
		home, _ := os.UserHomeDir()
		return []string{"/Library/Fonts", "/System/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dirs = append(dirs, filepath.Join(xdg, "fonts"))
		}
		return dirs
	}
}
