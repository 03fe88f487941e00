package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Every view is written as one JSON object. Each input line may be a JSON object
// {"field": "...", "value": "..."}, a JSON string holding a command, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// EditRequest is the JSON shape of a single edit.
type EditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *JSONHandler) Output(ctx context.Context, view View) error {
	return h.Encoder.Encode(view)
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "{") {
		var req EditRequest
		if err := json.Unmarshal([]byte(text), &req); err == nil && req.Field != "" {
			value, err := SanitizeInput(req.Value)
			if err != nil {
				return "", err
			}
			return req.Field + "=" + value, nil
		}
	}

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return SanitizeInput(val)
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
