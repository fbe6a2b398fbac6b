package mock

import "github.com/fwojciec/docchat"

// Compile-time interface verification.
var (
	_ docchat.LinkExtractor     = (*LinkExtractor)(nil)
	_ docchat.FrameworkDetector = (*FrameworkDetector)(nil)
)

// LinkExtractor is a mock implementation of docchat.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

// FrameworkDetector is a mock implementation of docchat.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) docchat.Framework
}

func (d *FrameworkDetector) Detect(html string) docchat.Framework {
	return d.DetectFn(html)
}
