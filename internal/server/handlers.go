package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/cache"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/fileutil"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": s.version,
	})
}

type previewResponse struct {
	Success  bool            `json:"success"`
	DocID    *string         `json:"doc_id"`
	Filename string          `json:"filename"`
	Model    json.RawMessage `json:"document_model"`
	HTML     string          `json:"html_preview"`
}

// cachedPreview is the value stored in the preview cache.
type cachedPreview struct {
	Model json.RawMessage `json:"m"`
	HTML  string          `json:"h"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, s.cfg.MaxUploadBytes); err != nil {
		status, msg := uploadStatus(err, s.cfg.MaxUploadBytes)
		writeError(w, status, msg)
		return
	}
	filename, markdown, err := readMarkdown(r, s.cfg.MaxUploadBytes)
	if err != nil {
		status, msg := uploadStatus(err, s.cfg.MaxUploadBytes)
		writeError(w, status, msg)
		return
	}
	paletteKey := s.resolvePalette(r.FormValue("table_color"))

	preview, err := s.preview(r.Context(), filename, markdown, paletteKey)
	if err != nil {
		s.conversionError(w, err)
		return
	}

	resp := previewResponse{
		Success:  true,
		Filename: filename,
		Model:    preview.Model,
		HTML:     preview.HTML,
	}
	if rec, ok := s.save(r.Context(), store.Record{
		Owner:            Owner(r.Context()),
		OriginalFilename: filename,
		OutputKind:       string(readmeforge.FormatHTML),
		Model:            preview.Model,
	}); ok {
		resp.DocID = &rec.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

// preview converts to HTML through the preview cache.
func (s *Server) preview(ctx context.Context, filename, markdown, paletteKey string) (cachedPreview, error) {
	conv, err := s.pool.Acquire(ctx)
	if err != nil {
		return cachedPreview{}, err
	}
	defer s.pool.Release(conv)

	key := cache.Key(markdown, paletteKey, conv.GeneratedDate(), filename)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("preview cache read failed", "error", err)
	} else if ok {
		var cached cachedPreview
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	res, err := conv.Convert(ctx, readmeforge.Input{
		Markdown:   markdown,
		SourceName: filename,
		Palette:    paletteKey,
	})
	if err != nil {
		return cachedPreview{}, err
	}
	model, err := json.Marshal(res.Model)
	if err != nil {
		return cachedPreview{}, fmt.Errorf("%w: %v", readmeforge.ErrConversion, err)
	}

	out := cachedPreview{Model: model, HTML: res.HTML}
	if data, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			s.logger.Warn("preview cache write failed", "error", err)
		}
	}
	return out, nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, s.cfg.MaxUploadBytes); err != nil {
		status, msg := uploadStatus(err, s.cfg.MaxUploadBytes)
		writeError(w, status, msg)
		return
	}

	formatValue := r.FormValue("format")
	if formatValue == "" {
		formatValue = string(readmeforge.FormatPDF)
	}
	format, err := readmeforge.ParseFormat(formatValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Format must be 'pdf', 'docx', or 'html'")
		return
	}

	filename, markdown, err := readMarkdown(r, s.cfg.MaxUploadBytes)
	if err != nil {
		status, msg := uploadStatus(err, s.cfg.MaxUploadBytes)
		writeError(w, status, msg)
		return
	}
	paletteKey := s.resolvePalette(r.FormValue("table_color"))

	conv, err := s.pool.Acquire(r.Context())
	if err != nil {
		s.conversionError(w, err)
		return
	}
	res, err := conv.Convert(r.Context(), readmeforge.Input{
		Markdown:   markdown,
		SourceName: filename,
		Palette:    paletteKey,
		Formats:    []readmeforge.Format{format},
	})
	s.pool.Release(conv)
	if err != nil {
		s.conversionError(w, err)
		return
	}
	data := res.Bytes(format)

	if model, err := json.Marshal(res.Model); err == nil {
		s.save(r.Context(), store.Record{
			Owner:            Owner(r.Context()),
			OriginalFilename: filename,
			OutputKind:       string(format),
			Model:            model,
			Artifact:         data,
		})
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Disposition", contentDisposition(downloadName(filename, format.Extension())))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// downloadName returns "<stem>_report.<ext>" with spaces turned into '_'.
func downloadName(filename, ext string) string {
	stem := strings.ReplaceAll(fileutil.Stem(filename), " ", "_")
	if stem == "" {
		return fileutil.ReportName(filename, ext)
	}
	return stem + "_report." + ext
}

// contentDisposition builds an attachment header with an ASCII filename and
// an RFC 5987 filename* carrying the UTF-8 name.
func contentDisposition(name string) string {
	fallback := fileutil.SafeName(name)
	return mime.FormatMediaType("attachment", map[string]string{"filename": fallback}) +
		"; filename*=UTF-8''" + url.PathEscape(name)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context(), Owner(r.Context()))
	if err != nil {
		s.logger.Error("listing documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load documents")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		s.logger.Error("loading document failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load document")
		return
	}
	if doc.Owner != Owner(r.Context()) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), Owner(r.Context()), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		s.logger.Error("deleting document failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolvePalette validates the requested palette; unknown keys fall back to
// the server default and are logged.
func (s *Server) resolvePalette(key string) string {
	if key == "" {
		return s.palette
	}
	if !readmeforge.IsValidPalette(key) {
		s.logger.Warn("unknown palette, using default", "palette", key, "default", s.palette)
		return s.palette
	}
	return readmeforge.NormalizePalette(key)
}

// save records a conversion for an identified owner. Failures are logged
// and never fail the response.
func (s *Server) save(ctx context.Context, rec store.Record) (store.Record, bool) {
	if rec.Owner == "" {
		return store.Record{}, false
	}
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		s.logger.Warn("saving document failed", "error", err, "owner", rec.Owner)
		return store.Record{}, false
	}
	return saved, true
}

// conversionError maps converter errors to responses. Render errors
// already carry their format prefix.
func (s *Server) conversionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "Request cancelled")
		return
	case errors.Is(err, readmeforge.ErrPDFGeneration),
		errors.Is(err, readmeforge.ErrDOCXGeneration),
		errors.Is(err, readmeforge.ErrHTMLGeneration):
		s.logger.Error("conversion failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Error("conversion failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Conversion failed: "+err.Error())
}
