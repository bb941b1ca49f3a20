package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DecodeResponse decodes a JSON body into v and closes it.
func DecodeResponse(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if v == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", resp.Request.URL.Path, err)
	}
	return nil
}

// DecodeList decodes list endpoints, which answer either a bare JSON array or
// a paginated {"results": [...]} object.
func DecodeList[T any](resp *http.Response) ([]T, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", resp.Request.URL.Path, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decode %s page: %w", resp.Request.URL.Path, err)
		}
		raw = page.Results
	}

	items := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", resp.Request.URL.Path, err)
	}
	return items, nil
}
