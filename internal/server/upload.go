package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope and the other form fields.
const multipartOverhead = 64 << 10

const maxOwnerLength = 128

var (
	errTooLarge    = errors.New("file too large")
	errNotMarkdown = errors.New("only .md files are accepted")
	errNoFile      = errors.New("missing file field")
	errBadForm     = errors.New("malformed multipart form")
)

// parseForm bounds the request body and parses the multipart form.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			return errTooLarge
		}
		return fmt.Errorf("%w: %v", errBadForm, err)
	}
	return nil
}

// readMarkdown returns the uploaded file name and its text. Bytes are decoded
// as UTF-8; ill-formed sequences become U+FFFD and a leading BOM is dropped.
func readMarkdown(r *http.Request, maxBytes int64) (filename, text string, err error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", errNoFile
	}
	defer file.Close()

	filename = filepath.Base(strings.ReplaceAll(header.Filename, `\`, "/"))
	if !strings.EqualFold(filepath.Ext(filename), ".md") {
		return "", "", errNotMarkdown
	}
	if header.Size > maxBytes {
		return "", "", errTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errBadForm, err)
	}
	if int64(len(data)) > maxBytes {
		return "", "", errTooLarge
	}

	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errBadForm, err)
	}
	return filename, string(decoded), nil
}

// uploadStatus maps an upload error to its HTTP status and message.
func uploadStatus(err error, maxBytes int64) (int, string) {
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large (max %d MB)", maxBytes>>20)
	case errors.Is(err, errNotMarkdown):
		return http.StatusBadRequest, "Only .md files are accepted"
	case errors.Is(err, errNoFile):
		return http.StatusBadRequest, "A .md file is required in the 'file' field"
	default:
		return http.StatusBadRequest, "Malformed upload"
	}
}
