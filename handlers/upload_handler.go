package handlers

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 * 1024 * 1024

type UploadHandler struct {
	Dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{Dir: dir}
}

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// UploadImage stores a listing image under a generated filename and returns
// its public URL. The content type is sniffed from the bytes, not taken from
// the request.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image file is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image must be 5 MB or smaller"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read image"})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image must be 5 MB or smaller"})
	}

	mtype := mimetype.Detect(data)
	if !allowedImage(mtype) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only JPEG, PNG and WebP images are accepted"})
	}

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		log.Printf("failed to create upload dir %s: %v", h.Dir, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image"})
	}

	name := uuid.NewString() + mtype.Extension()
	path := filepath.Join(h.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("failed to write %s: %v", path, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": "/uploads/bikes/" + name,
	})
}

func allowedImage(mtype *mimetype.MIME) bool {
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}
