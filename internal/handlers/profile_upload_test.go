package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MosinFAM/connecthub/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadAvatar(t *testing.T, r *gin.Engine, token, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadProfileImage(t *testing.T) {
	store := storage.NewMemoryStorage()
	r, _ := newTestRouter(t, store)
	token := signupAndLogin(t, r, "alice")

	w := uploadAvatar(t, r, token, "me.png", smallPNG(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "/uploads/profile_images/profile_")
	assert.Contains(t, w.Body.String(), "thumb_profile_")

	user, err := store.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Contains(t, user.ImageURL, "/uploads/profile_images/profile_")
}

func TestUploadProfileImage_FailureLeavesReferenceUnchanged(t *testing.T) {
	store := storage.NewMemoryStorage()
	r, _ := newTestRouter(t, store)
	token := signupAndLogin(t, r, "alice")

	w := uploadAvatar(t, r, token, "broken.png", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	user, err := store.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "", user.ImageURL)
}

func TestUploadProfileImage_MissingFile(t *testing.T) {
	r, _ := newTestRouter(t, storage.NewMemoryStorage())
	token := signupAndLogin(t, r, "alice")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/profile/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No image file provided")
}
