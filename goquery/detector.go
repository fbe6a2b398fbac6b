package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docchat"
)

var _ docchat.FrameworkDetector = (*Detector)(nil)

// frameworkMarker lists selectors unique to one documentation generator.
type frameworkMarker struct {
	framework docchat.Framework
	selectors []string
}

// markers is checked in order. VitePress precedes VuePress since it
// inherits some of its markup.
var markers = []frameworkMarker{
	{docchat.FrameworkDocusaurus, []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"}},
	{docchat.FrameworkMkDocs, []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"}},
	{docchat.FrameworkSphinx, []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"}},
	{docchat.FrameworkVitePress, []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"}},
	{docchat.FrameworkVuePress, []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"}},
	{docchat.FrameworkGitBook, []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"}},
	{docchat.FrameworkNextra, []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"}},
}

// Detector identifies documentation frameworks from the meta generator tag
// or from markup specific to each generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
func (d *Detector) Detect(html string) docchat.Framework {
	doc, err := parse(html)
	if err != nil {
		return docchat.FrameworkUnknown
	}
	return detect(doc)
}

func detect(doc *goquery.Document) docchat.Framework {
	if f := fromGenerator(doc); f != docchat.FrameworkUnknown {
		return f
	}
	for _, m := range markers {
		for _, sel := range m.selectors {
			if doc.Find(sel).Length() > 0 {
				return m.framework
			}
		}
	}
	return docchat.FrameworkUnknown
}

func fromGenerator(doc *goquery.Document) docchat.Framework {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))
	if generator == "" {
		return docchat.FrameworkUnknown
	}

	// vitepress before vuepress, both contain "press"
	for _, f := range []docchat.Framework{
		docchat.FrameworkSphinx,
		docchat.FrameworkGitBook,
		docchat.FrameworkDocusaurus,
		docchat.FrameworkMkDocs,
		docchat.FrameworkVitePress,
		docchat.FrameworkVuePress,
		docchat.FrameworkNextra,
	} {
		if strings.Contains(generator, string(f)) {
			return f
		}
	}
	return docchat.FrameworkUnknown
}
