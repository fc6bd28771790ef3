package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type file struct {
	name string
	data string
}

func multipartContext(t *testing.T, field string, files ...file) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Oud"))
	for _, f := range files {
		part, err := mw.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestImages(t *testing.T) {
	c := multipartContext(t, FieldImages, file{"front.png", "a"}, file{"back.JPG", "bb"})

	images, err := Images(c, FieldImages)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "front.png", images[0].Filename)
	assert.Equal(t, []byte("a"), images[0].Data)
	assert.Equal(t, "back.JPG", images[1].Filename)
}

func TestImagesWithoutFiles(t *testing.T) {
	images, err := Images(multipartContext(t, FieldImages), FieldImages)
	require.NoError(t, err)
	assert.Empty(t, images)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Oud"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	images, err = Images(c, FieldImages)
	require.NoError(t, err)
	assert.Nil(t, images)
}

func TestImagesRejectsNonImages(t *testing.T) {
	c := multipartContext(t, FieldImages, file{"front.png", "a"}, file{"notes.txt", "b"})

	_, err := Images(c, FieldImages)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestImagesRejectsTooMany(t *testing.T) {
	files := make([]file, MaxFiles+1)
	for i := range files {
		files[i] = file{"img.png", "x"}
	}

	_, err := Images(multipartContext(t, FieldImages, files...), FieldImages)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
