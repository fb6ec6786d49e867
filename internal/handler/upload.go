package handler

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dangerclosesec/transpiler/translator"
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func isJavaFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), translator.SourceExtension)
}
