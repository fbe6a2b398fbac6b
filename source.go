package docchat

import "strings"

// Default prefixes used when rewriting local paths into source URLs.
const (
	DefaultLocalPrefix  = "langchain-docs"
	DefaultRemotePrefix = "https:/"
)

// SourceRewriter maps local file paths to the remote URLs they were downloaded from.
type SourceRewriter struct {
	LocalPrefix  string
	RemotePrefix string
}

// NewSourceRewriter returns a rewriter with the default prefixes.
func NewSourceRewriter() *SourceRewriter {
	return &SourceRewriter{
		LocalPrefix:  DefaultLocalPrefix,
		RemotePrefix: DefaultRemotePrefix,
	}
}

// Rewrite replaces a leading LocalPrefix with RemotePrefix.
// Paths that do not start with LocalPrefix are returned unchanged.
//
//	langchain-docs/foo/bar.html -> https://foo/bar.html
func (r *SourceRewriter) Rewrite(path string) string {
	if r.LocalPrefix == "" || !strings.HasPrefix(path, r.LocalPrefix) {
		return path
	}
	return r.RemotePrefix + strings.TrimPrefix(path, r.LocalPrefix)
}
