package insights

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is the body of an insight query. Context is accepted and ignored.
type Request struct {
	Question jsoniter.RawMessage `json:"question"`
	Context  jsoniter.RawMessage `json:"context,omitempty"`
}

// DecodeQuestion extracts the question from a request body. The question
// must be present and a JSON string; an empty string is valid.
func DecodeQuestion(body []byte) (string, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("%w: decode body: %v", ErrInvalidInput, err)
	}

	raw := bytes.TrimSpace(req.Question)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if raw[0] != '"' {
		return "", fmt.Errorf("%w: question must be a string", ErrInvalidInput)
	}

	var question string
	if err := json.Unmarshal(raw, &question); err != nil {
		return "", fmt.Errorf("%w: question: %v", ErrInvalidInput, err)
	}
	return question, nil
}
