package detect

import "strings"

// Content families, a coarse classification used for handler
// restrictions and reporting. An unmapped content type yields "".
const (
	FamilyText        = "text"
	FamilyHTML        = "html"
	FamilyImage       = "image"
	FamilyAudio       = "audio"
	FamilyVideo       = "video"
	FamilyArchive     = "archive"
	FamilyDocument    = "document"
	FamilySpreadsheet = "spreadsheet"
)

var familyByType = map[string]string{
	"text/html":             FamilyHTML,
	"application/xhtml+xml": FamilyHTML,
	"application/pdf":       FamilyDocument,
	"application/msword":    FamilyDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FamilyDocument,
	"application/vnd.oasis.opendocument.text":                                 FamilyDocument,
	"application/vnd.ms-excel":                                                FamilySpreadsheet,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       FamilySpreadsheet,
	"text/csv":                     FamilySpreadsheet,
	"application/zip":              FamilyArchive,
	"application/x-tar":            FamilyArchive,
	"application/gzip":             FamilyArchive,
	"application/x-7z-compressed":  FamilyArchive,
	"application/x-rar-compressed": FamilyArchive,
}

var familyByPrefix = map[string]string{
	"text/":  FamilyText,
	"image/": FamilyImage,
	"audio/": FamilyAudio,
	"video/": FamilyVideo,
}

// Family maps a content type to its family, or "" when unmapped.
func Family(contentType string) string {
	contentType = strip(strings.ToLower(contentType))
	if f, ok := familyByType[contentType]; ok {
		return f
	}
	for prefix, f := range familyByPrefix {
		if strings.HasPrefix(contentType, prefix) {
			return f
		}
	}
	return ""
}
