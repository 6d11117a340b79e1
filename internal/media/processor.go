package media

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	ErrInvalidType      = errors.New("invalid file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrProcessingFailed = errors.New("image processing failed")
)

const (
	maxAvatarDimension = 1024
	thumbnailDimension = 150
	avatarQuality      = 85
	thumbnailQuality   = 80

	defaultMaxAvatarBytes = 5 << 20
	defaultMaxPostBytes   = 10 << 20
)

var avatarExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true,
}

// Post media is size/type checked only, never re-encoded.
var postExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true,
	"gif": true, "mp4": true, "mov": true, "avi": true,
}

// Config is the explicit state the Processor needs; there are no package-level
// paths. UploadDir is the root served at /uploads.
type Config struct {
	UploadDir      string
	MaxAvatarBytes int64
	MaxPostBytes   int64
}

type Processor struct {
	avatarDir    string
	thumbnailDir string
	postDir      string
	maxAvatar    int64
	maxPost      int64
}

func NewProcessor(cfg Config) (*Processor, error) {
	p := &Processor{
		avatarDir:    filepath.Join(cfg.UploadDir, "profile_images"),
		thumbnailDir: filepath.Join(cfg.UploadDir, "profile_images", "thumbnails"),
		postDir:      filepath.Join(cfg.UploadDir, "posts"),
		maxAvatar:    cfg.MaxAvatarBytes,
		maxPost:      cfg.MaxPostBytes,
	}
	if p.maxAvatar == 0 {
		p.maxAvatar = defaultMaxAvatarBytes
	}
	if p.maxPost == 0 {
		p.maxPost = defaultMaxPostBytes
	}
	for _, dir := range []string{p.avatarDir, p.thumbnailDir, p.postDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating upload directory: %w", err)
		}
	}
	return p, nil
}

// AvatarResult holds the relative URLs of the two produced artifacts.
type AvatarResult struct {
	ImageURL     string
	ThumbnailURL string
}

func extensionOf(filename string, allowed map[string]bool) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", ErrInvalidType
	}
	ext := strings.ToLower(filename[idx+1:])
	if !allowed[ext] {
		return "", ErrInvalidType
	}
	return ext, nil
}

// uniqueName embeds owner, timestamp and a random suffix so concurrent
// uploads never collide without any locking.
func uniqueName(kind string, ownerID int64, ext string) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%d_%d_%s.%s", kind, ownerID, time.Now().Unix(), suffix, ext)
}

// ProcessAvatar runs the full avatar pipeline: store the original, decode,
// flatten transparency, fit into 1024x1024, re-encode as JPEG, derive a
// 150x150 thumbnail from the processed image, then drop the original.
// Any failure removes every file written so far before returning.
func (p *Processor) ProcessAvatar(ownerID int64, filename string, r io.Reader, size int64) (*AvatarResult, error) {
	ext, err := extensionOf(filename, avatarExtensions)
	if err != nil {
		return nil, fmt.Errorf("%w: only jpg, jpeg, png allowed", ErrInvalidType)
	}
	if size > p.maxAvatar {
		return nil, fmt.Errorf("%w: max %d MB", ErrFileTooLarge, p.maxAvatar>>20)
	}

	var written []string
	fail := func(err error) (*AvatarResult, error) {
		for _, path := range written {
			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				log.Println("Cleanup error:", removeErr)
			}
		}
		return nil, err
	}

	originalName := uniqueName("profile", ownerID, ext)
	originalPath := filepath.Join(p.avatarDir, originalName)
	written = append(written, originalPath)
	if err := writeFile(originalPath, io.LimitReader(r, p.maxAvatar+1)); err != nil {
		return fail(err)
	}
	if info, err := os.Stat(originalPath); err == nil && info.Size() > p.maxAvatar {
		return fail(fmt.Errorf("%w: max %d MB", ErrFileTooLarge, p.maxAvatar>>20))
	}

	img, err := imaging.Open(originalPath)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrProcessingFailed, err))
	}
	img = normalize(img)

	processedName := strings.TrimSuffix(originalName, "."+ext) + ".jpg"
	processedPath := filepath.Join(p.avatarDir, processedName)
	written = append(written, processedPath)
	if err := imaging.Save(img, processedPath, imaging.JPEGQuality(avatarQuality)); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrProcessingFailed, err))
	}

	// Thumbnail is derived from the processed image, not the original.
	thumbnail := imaging.Fit(img, thumbnailDimension, thumbnailDimension, imaging.Lanczos)
	thumbnailName := "thumb_" + processedName
	thumbnailPath := filepath.Join(p.thumbnailDir, thumbnailName)
	written = append(written, thumbnailPath)
	if err := imaging.Save(thumbnail, thumbnailPath, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrProcessingFailed, err))
	}

	// Keep only the processed version. A jpg upload re-encodes in place,
	// so the original and processed paths coincide and nothing is removed.
	if originalPath != processedPath {
		if err := os.Remove(originalPath); err != nil {
			log.Println("Cleanup error:", err)
		}
	}

	return &AvatarResult{
		ImageURL:     "/uploads/profile_images/" + processedName,
		ThumbnailURL: "/uploads/profile_images/thumbnails/" + thumbnailName,
	}, nil
}

// SavePostMedia validates type and size, then stores the blob verbatim.
func (p *Processor) SavePostMedia(ownerID int64, filename string, r io.Reader, size int64) (string, error) {
	ext, err := extensionOf(filename, postExtensions)
	if err != nil {
		return "", fmt.Errorf("%w: invalid media file type", ErrInvalidType)
	}
	if size > p.maxPost {
		return "", fmt.Errorf("%w: max %d MB", ErrFileTooLarge, p.maxPost>>20)
	}

	name := uniqueName("post", ownerID, ext)
	path := filepath.Join(p.postDir, name)
	if err := writeFile(path, io.LimitReader(r, p.maxPost+1)); err != nil {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Println("Cleanup error:", removeErr)
		}
		return "", err
	}
	return "/uploads/posts/" + name, nil
}

// Remove is the best-effort compensating delete for a previously returned URL.
func (p *Processor) Remove(relURL string) {
	rel := strings.TrimPrefix(relURL, "/uploads/")
	if rel == relURL || rel == "" {
		return
	}
	root := filepath.Dir(p.postDir) // UploadDir
	path := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Println("Cleanup error:", err)
	}
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// normalize flattens transparent or paletted images onto a white background
// and scales down so neither dimension exceeds 1024, preserving aspect ratio.
func normalize(img image.Image) image.Image {
	if needsFlatten(img.ColorModel()) {
		background := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
		img = imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
	}
	return imaging.Fit(img, maxAvatarDimension, maxAvatarDimension, imaging.Lanczos)
}

func needsFlatten(m color.Model) bool {
	switch m {
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model,
		color.AlphaModel, color.Alpha16Model:
		return true
	}
	_, paletted := m.(color.Palette)
	return paletted
}
