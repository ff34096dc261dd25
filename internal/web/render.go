package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes an error response as {error, code[, details]} with the
// message as a plain string. Unknown errors are wrapped as INTERNAL before
// rendering. Validation failures are bad input at this boundary, so they go
// out as 400 regardless of the taxonomy status.
func renderError(w http.ResponseWriter, err error) {
	var dErr *deskerrors.DeskError
	if !stderrors.As(err, &dErr) {
		dErr = deskerrors.NewInternal(err)
	}

	status := dErr.Status
	if dErr.Code == deskerrors.ErrValidation {
		status = http.StatusBadRequest
	}

	body := map[string]any{
		"error": dErr.Message,
		"code":  string(dErr.Code),
	}
	if len(dErr.Details) > 0 {
		body["details"] = dErr.Details
	}
	renderJSON(w, status, body)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// decodeBody decodes a JSON request body into T.
func decodeBody[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, deskerrors.NewInvalidRequest("invalid JSON body")
	}
	return v, nil
}
