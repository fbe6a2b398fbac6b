// Package gemini implements docchat's language model boundaries with the
// Google Gen AI SDK: embeddings, answer synthesis, question condensing and
// token counting.
package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/docchat"
	"google.golang.org/genai"
)

// Default models.
const (
	DefaultChatModel      = "gemini-2.5-flash"
	DefaultEmbeddingModel = "gemini-embedding-001"
	DefaultTokenizerModel = "gemini-2.5-flash"
)

// NewClient creates a Gemini API client. A non-empty baseURL overrides the
// API endpoint.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "create gemini client: %v", err)
	}
	return client, nil
}

// translateError maps Gemini API errors onto docchat error codes so callers
// can tell permanent failures from transient ones.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	code := docchat.EINTERNAL
	switch {
	case apiErr.Code == http.StatusBadRequest:
		code = docchat.EINVALID
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		code = docchat.EUNAUTHORIZED
	case apiErr.Code == http.StatusNotFound:
		code = docchat.ENOTFOUND
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500:
		code = docchat.EUNAVAILABLE
	}
	return docchat.Errorf(code, "gemini: %d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message)
}

// Content roles.
const (
	roleUser  = "user"
	roleModel = "model"
)
