package utils

import (
	"crypto/md5"
	"fmt"
)

// EncrypIt hashes a string, used for weak etags on icon responses.
func EncrypIt(strToHash string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(strToHash)))
}

// ExtensionFromContentType maps an image content type to a file extension.
func ExtensionFromContentType(ct string) string {
	switch ct {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}
