// Package weaviate implements docchat.VectorIndex on a hosted Weaviate
// cluster. Each index is a Weaviate class with externally supplied vectors.
package weaviate

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/fwojciec/docchat"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/fault"
)

// NewClient creates a client for the cluster at host. Hosts given as a bare
// name use https; a scheme prefix such as "http://localhost:8080" overrides
// it. An empty apiKey disables authentication.
func NewClient(host, apiKey string) (*weaviate.Client, error) {
	if host == "" {
		return nil, docchat.Errorf(docchat.EINVALID, "weaviate host required")
	}
	scheme := "https"
	if s, rest, ok := strings.Cut(host, "://"); ok {
		scheme, host = s, rest
	}
	cfg := weaviate.Config{
		Host:   strings.TrimSuffix(host, "/"),
		Scheme: scheme,
	}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: apiKey}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "create weaviate client: %v", err)
	}
	return client, nil
}

// ClassName maps an index name onto a valid Weaviate class name by
// capitalizing each alphanumeric run, so "langchain-document-index" becomes
// "LangchainDocumentIndex".
func ClassName(index string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(index, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	name := b.String()
	if name != "" && !unicode.IsLetter([]rune(name)[0]) {
		name = "Index" + name
	}
	return name
}

// translateError maps Weaviate client errors onto docchat error codes.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var clientErr *fault.WeaviateClientError
	if !errors.As(err, &clientErr) || !clientErr.IsUnexpectedStatusCode {
		return err
	}

	code := docchat.EINTERNAL
	switch status := clientErr.StatusCode; {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code = docchat.EINVALID
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = docchat.EUNAUTHORIZED
	case status == http.StatusNotFound:
		code = docchat.ENOTFOUND
	case status == http.StatusTooManyRequests || status >= 500:
		code = docchat.EUNAVAILABLE
	}
	return docchat.Errorf(code, "weaviate %s: %d: %s", op, clientErr.StatusCode, clientErr.Msg)
}
