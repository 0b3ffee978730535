package siteengine

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/northbound/siteengine/store"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 80
)

// processImage decodes an upload, scales it down to maxImageWidth if it
// is wider, and re-encodes it as JPEG. Returns the row metadata minus
// path and uploader, plus the encoded bytes.
func processImage(src io.Reader, originalName string) (store.Media, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return store.Media{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return store.Media{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return store.Media{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Size:         buf.Len(),
		MimeType:     "image/jpeg",
		Width:        w,
		Height:       h,
	}, buf.Bytes(), nil
}

func slugifyFilename(name string) string {
	return Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
}

// ensureUniqueFilename appends a counter while the candidate collides
// with the filesystem or an existing media row.
func (a *App) ensureUniqueFilename(m *store.Media) {
	base := strings.TrimSuffix(m.Filename, ".jpg")
	candidate := m.Filename
	counter := 1
	for {
		if _, err := os.Stat(filepath.Join(a.Config.UploadDir, candidate)); err == nil {
			counter++
			candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
			continue
		}
		if _, err := a.Store.MediaByFilename(candidate); err == nil {
			counter++
			candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
			continue
		}
		break
	}
	m.Filename = candidate
}

func (a *App) handleMediaUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file provided")
	}
	if file.Size > a.Config.MaxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	m, data, err := processImage(src, file.Filename)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image: "+err.Error())
	}
	a.ensureUniqueFilename(&m)
	m.Path = filepath.ToSlash(filepath.Join(a.Config.UploadDir, m.Filename))
	m.UploaderID = currentUser(c).ID

	if err := os.MkdirAll(a.Config.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.Config.UploadDir, m.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	saved, err := a.Store.Media.Insert(&m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, saved)
}

func (a *App) handleMediaList(c echo.Context) error {
	if uploader := c.QueryParam("uploader"); uploader != "" {
		return c.JSON(http.StatusOK, a.Store.MediaByUploader(uploader))
	}
	return c.JSON(http.StatusOK, a.Store.Media.List())
}

func (a *App) handleMediaDelete(c echo.Context) error {
	m, err := a.Store.Media.Get(c.Param("id"))
	if err != nil {
		return storeErr(err, "media not found", "")
	}

	// Best effort; the row wins even if the file is already gone.
	_ = os.Remove(filepath.Join(a.Config.UploadDir, m.Filename))

	a.Store.Media.Delete(m.ID)
	return c.NoContent(http.StatusNoContent)
}
