package docchat

// Converter converts clean HTML into the text that gets split and embedded.
type Converter interface {
	Convert(html string) (string, error)
}
