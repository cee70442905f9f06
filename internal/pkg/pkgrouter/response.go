package pkgrouter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// RawResponse is written as-is instead of being wrapped in the JSON envelope.
type RawResponse interface {
	ContentType() string
	Content() []byte
}

// Attachment is a RawResponse the client should save under FileName.
type Attachment interface {
	RawResponse
	FileName() string
}

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successReponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}

func writeRaw(w http.ResponseWriter, resp RawResponse, code int) {
	content := resp.Content()

	w.Header().Set("Content-Type", resp.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if att, ok := resp.(Attachment); ok && att.FileName() != "" {
		w.Header().Set("Content-Disposition", contentDisposition(att.FileName()))
	}

	w.WriteHeader(code)
	if _, err := w.Write(content); err != nil {
		slog.Error("server: failed to write raw response", "error", err)
	}
}

func contentDisposition(name string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)

	return fmt.Sprintf("attachment; filename=%q", safe)
}
