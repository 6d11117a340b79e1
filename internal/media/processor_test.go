package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T) (*Processor, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := NewProcessor(Config{UploadDir: dir})
	require.NoError(t, err)
	return p, dir
}

// rgbaPNG encodes a width x height NRGBA image with partial transparency.
func rgbaPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func decodeConfig(t *testing.T, path string) (image.Config, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg, format
}

func TestProcessAvatar_NormalizesLargeRGBA(t *testing.T) {
	p, dir := newTestProcessor(t)
	data := rgbaPNG(t, 2000, 2000)

	result, err := p.ProcessAvatar(7, "avatar.PNG", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(result.ImageURL, "/uploads/profile_images/profile_7_"))
	require.True(t, strings.HasSuffix(result.ImageURL, ".jpg"))
	require.Contains(t, result.ThumbnailURL, "/thumbnails/thumb_profile_7_")

	imagePath := filepath.Join(dir, strings.TrimPrefix(result.ImageURL, "/uploads/"))
	cfg, format := decodeConfig(t, imagePath)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, 1024)
	assert.LessOrEqual(t, cfg.Height, 1024)

	thumbPath := filepath.Join(dir, strings.TrimPrefix(result.ThumbnailURL, "/uploads/"))
	thumbCfg, thumbFormat := decodeConfig(t, thumbPath)
	assert.Equal(t, "jpeg", thumbFormat)
	assert.LessOrEqual(t, thumbCfg.Width, 150)
	assert.LessOrEqual(t, thumbCfg.Height, 150)

	// Only the two artifacts survive; the original upload is gone.
	assert.Len(t, listFiles(t, dir), 2)
}

// rgbJPEG encodes a width x height opaque JPEG image.
func rgbJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestProcessAvatar_JPEGUploadKeepsProcessedFile(t *testing.T) {
	p, dir := newTestProcessor(t)
	data := rgbJPEG(t, 1500, 1500)

	result, err := p.ProcessAvatar(3, "photo.jpg", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	// The re-encoded jpg keeps its own name; cleanup must not eat it.
	imagePath := filepath.Join(dir, strings.TrimPrefix(result.ImageURL, "/uploads/"))
	cfg, format := decodeConfig(t, imagePath)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, 1024)
	assert.LessOrEqual(t, cfg.Height, 1024)

	thumbPath := filepath.Join(dir, strings.TrimPrefix(result.ThumbnailURL, "/uploads/"))
	_, thumbFormat := decodeConfig(t, thumbPath)
	assert.Equal(t, "jpeg", thumbFormat)

	assert.Len(t, listFiles(t, dir), 2)
}

func TestProcessAvatar_SmallImageNotUpscaled(t *testing.T) {
	p, dir := newTestProcessor(t)
	data := rgbaPNG(t, 300, 200)

	result, err := p.ProcessAvatar(1, "small.png", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	imagePath := filepath.Join(dir, strings.TrimPrefix(result.ImageURL, "/uploads/"))
	cfg, _ := decodeConfig(t, imagePath)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestProcessAvatar_RejectsBadExtension(t *testing.T) {
	p, dir := newTestProcessor(t)

	_, err := p.ProcessAvatar(1, "avatar.gif", bytes.NewReader([]byte("gif")), 3)
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = p.ProcessAvatar(1, "noextension", bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, ErrInvalidType)

	assert.Empty(t, listFiles(t, dir))
}

func TestProcessAvatar_RejectsOversized(t *testing.T) {
	p, dir := newTestProcessor(t)

	_, err := p.ProcessAvatar(1, "big.png", bytes.NewReader(nil), 6<<20)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, listFiles(t, dir))
}

func TestProcessAvatar_DecodeFailureLeavesNoFiles(t *testing.T) {
	p, dir := newTestProcessor(t)
	garbage := []byte("this is not an image at all")

	_, err := p.ProcessAvatar(1, "broken.png", bytes.NewReader(garbage), int64(len(garbage)))
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.Empty(t, listFiles(t, dir))
}

func TestSavePostMedia_StoredVerbatim(t *testing.T) {
	p, dir := newTestProcessor(t)
	payload := []byte("fake video bytes")

	url, err := p.SavePostMedia(3, "clip.MP4", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/posts/post_3_"))
	require.True(t, strings.HasSuffix(url, ".mp4"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestSavePostMedia_Validation(t *testing.T) {
	p, _ := newTestProcessor(t)

	_, err := p.SavePostMedia(3, "script.exe", bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = p.SavePostMedia(3, "huge.mp4", bytes.NewReader(nil), 11<<20)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestRemove(t *testing.T) {
	p, dir := newTestProcessor(t)
	payload := []byte("bytes")

	url, err := p.SavePostMedia(3, "pic.jpg", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	require.Len(t, listFiles(t, dir), 1)

	p.Remove(url)
	assert.Empty(t, listFiles(t, dir))

	// Unknown or traversal paths are ignored.
	p.Remove("/uploads/../etc/passwd")
	p.Remove("/somewhere/else")
}

func TestUniqueNameFormat(t *testing.T) {
	name := uniqueName("profile", 12, "png")
	parts := strings.Split(strings.TrimSuffix(name, ".png"), "_")
	require.Len(t, parts, 4)
	assert.Equal(t, "profile", parts[0])
	assert.Equal(t, "12", parts[1])
	assert.Regexp(t, `^[0-9a-f]{8}$`, parts[3])
}
