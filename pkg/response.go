package pkg

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain",
}

// Pagination is the page metadata attached to list responses.
type Pagination struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPagination(page, size, total int) Pagination {
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}
	return Pagination{
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// apiResponse is the envelope used on all JSON responses.
type apiResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Total      *int        `json:"total,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func WriteData(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, apiResponse{
		Success: true,
		Data:    data,
	})
}

func WritePage(w http.ResponseWriter, data any, count, total int, pagination Pagination) {
	writeEnvelope(w, http.StatusOK, apiResponse{
		Success:    true,
		Data:       data,
		Count:      &count,
		Total:      &total,
		Pagination: &pagination,
	})
}

// WriteError renders any error as the {success: false, message} envelope.
// Unexpected (non APIError) failures come out as a generic 500 and the
// details stay in the logs only.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		writeEnvelope(w, apiErr.Status, apiResponse{
			Success: false,
			Message: apiErr.Message,
		})
		return
	}

	log.Errorf("unexpected handler error: %s", err)
	writeEnvelope(w, http.StatusInternalServerError, apiResponse{
		Success: false,
		Message: "internal server error",
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp apiResponse) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal response envelope: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respJson, status)
}

func WriteResponse(w http.ResponseWriter, contentType, message string, status int) {
	WriteResponseBytes(w, contentType, []byte(message), status)
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponseBytes(w, ContentType.Text, []byte(message), http.StatusOK)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, status int) {
	if contentType != "" {
		w.Header().Add("Content-Type", contentType)
	}
	w.WriteHeader(status)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}
