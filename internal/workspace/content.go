package workspace

// Document is the structured content handed to a document serializer.
type Document struct {
	Title      string
	Paragraphs []string
}

// Deck is the structured content handed to a presentation serializer.
type Deck struct {
	Title  string
	Slides []string
}

// Workbook is the structured content handed to a spreadsheet serializer.
type Workbook struct {
	Title string
	Rows  [][]string
}
