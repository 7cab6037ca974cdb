package export

// Section is one titled table within an exported document.
type Section struct {
	Heading string
	Headers []string
	Rows    [][]string
}

// Document is a multi-section tabular export.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// Renderer turns a Document into bytes of a specific format.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}
