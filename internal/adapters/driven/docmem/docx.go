package docmem

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// LoadDocx reads a DOCX file into a fresh accessor. Body paragraphs
// come from word/document.xml; paragraphs from word/header*.xml parts
// populate the header region, so a confidentiality marker already
// present in the source document is seen as such. Formatting does not
// survive the extraction.
func LoadDocx(path string, opts ...Option) (*Accessor, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer reader.Close()

	var body, header []string
	for _, file := range reader.File {
		switch {
		case file.Name == "word/document.xml":
			paras, err := extractParagraphs(file)
			if err != nil {
				return nil, err
			}
			body = paras
		case strings.HasPrefix(file.Name, "word/header") && strings.HasSuffix(file.Name, ".xml"):
			paras, err := extractParagraphs(file)
			if err != nil {
				return nil, err
			}
			header = append(header, paras...)
		}
	}

	acc := New(body, opts...)
	for _, text := range header {
		acc.seedHeader(text)
	}
	return acc, nil
}

// docxPart mirrors the paragraph/run/text nesting shared by
// word/document.xml (under <body>) and the header parts (top level).
type docxPart struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

func extractParagraphs(file *zip.File) ([]string, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name, err)
	}
	raw, readErr := io.ReadAll(rc)
	rc.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, readErr)
	}

	var part docxPart
	if err := xml.Unmarshal(raw, &part); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Name, err)
	}

	source := part.Body.Paragraphs
	if len(source) == 0 {
		source = part.Paragraphs
	}

	paras := make([]string, 0, len(source))
	for _, p := range source {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Text {
				sb.WriteString(t.Content)
			}
		}
		paras = append(paras, sb.String())
	}
	return paras, nil
}
