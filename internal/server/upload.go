package server

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const maxUploadBytes = 5 << 20 // 5 MB

var errUploadRejected = errors.New("upload rejected")

var allowedPhotoExt = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// savePhoto stores the optional "photo" part of a multipart create request
// and returns the public reference path. Returns nil without error when no
// photo was attached. Rejections wrap errUploadRejected so the boundary can
// answer with a 400 and the reason.
func (s *Server) savePhoto(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading photo part: %w", err)
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return nil, fmt.Errorf("%w: file too large, maximum size is 5MB", errUploadRejected)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedPhotoExt[ext] {
		return nil, fmt.Errorf("%w: only images are allowed (JPEG, JPG, PNG, GIF, WebP)", errUploadRejected)
	}

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		return nil, fmt.Errorf("%w: only images are allowed (JPEG, JPG, PNG, GIF, WebP)", errUploadRejected)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding photo: %w", err)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	// per-upload unique name, collisions are not possible by construction
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
	path := filepath.Join(s.cfg.UploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating photo file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing photo file: %w", err)
	}

	s.makeThumbnail(path, name, ext)

	ref := "/uploads/" + name
	return &ref, nil
}

// makeThumbnail writes a 300x300 JPEG next to the original. Only formats the
// stdlib can decode get one; a failed thumbnail never fails the upload.
func (s *Server) makeThumbnail(path, name, ext string) {
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return
	}
	src, err := os.Open(path)
	if err != nil {
		s.logger.Warn("thumbnail skipped", zap.String("photo", name), zap.Error(err))
		return
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		s.logger.Warn("thumbnail skipped", zap.String("photo", name), zap.Error(err))
		return
	}
	thumb := resize.Thumbnail(300, 300, img, resize.Lanczos3)

	out, err := os.Create(filepath.Join(s.cfg.UploadDir, "thumb_"+name+".jpg"))
	if err != nil {
		s.logger.Warn("thumbnail skipped", zap.String("photo", name), zap.Error(err))
		return
	}
	defer out.Close()
	if err := jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85}); err != nil {
		s.logger.Warn("thumbnail failed", zap.String("photo", name), zap.Error(err))
	}
}
