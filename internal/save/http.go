package save

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JackWReid/fieldpad/internal/form"
	"github.com/JackWReid/fieldpad/internal/logging"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of an error response is read for its message.
const maxBody = 64 << 10

// HTTPSaver posts the record as JSON to Endpoint.
type HTTPSaver struct {
	// Endpoint is the URL records are POSTed to.
	Endpoint string

	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client
}

// NewHTTPSaver creates a saver for endpoint. A timeout <= 0 uses DefaultTimeout.
func NewHTTPSaver(endpoint string, timeout time.Duration) *HTTPSaver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSaver{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Save maps the response status to a result: 2xx succeeds, 400 and 422 are
// validation failures, 409 is a conflict, anything else is unexpected.
func (s *HTTPSaver) Save(ctx context.Context, rec form.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return NewUnexpectedError("failed to encode record", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return NewUnexpectedError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logging.Debug("Saving record", zap.String("endpoint", s.Endpoint), zap.Int("bytes", len(body)))

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return NewUnexpectedError("save request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg := responseMessage(resp)
	var se *Error
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		se = NewValidationError(msg)
	case http.StatusConflict:
		se = NewConflictError(msg)
	default:
		se = NewUnexpectedError(msg, nil)
	}
	se.StatusCode = resp.StatusCode
	return se
}

// responseMessage extracts {"message": "..."} or {"error": "..."} from the
// body, falling back to the trimmed body text and then the status line.
func responseMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		return text
	}
	return fmt.Sprintf("server returned %s", resp.Status)
}
