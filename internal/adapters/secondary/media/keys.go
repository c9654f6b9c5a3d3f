package media

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// objectKey génère une clé unique "folder/uuid.ext". L'asset n'est jamais partagé entre deux posts.
func objectKey(folder, filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	if e, ok := extByContentType[contentType]; ok {
		ext = e
	}
	name := uuid.NewString() + ext

	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
