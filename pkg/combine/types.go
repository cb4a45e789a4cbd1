package combine

import "encoding/xml"

// FileRecord is one input file as it appears in the output document.
type FileRecord struct {
	Filename string `xml:"filename"` // Base name of the file.
	Filepath string `xml:"filepath"` // Absolute path of the file.
	Contents string `xml:"contents"` // Raw text of the file.
}

// Document is the ordered collection of records written as one XML file.
type Document struct {
	XMLName xml.Name     `xml:"codebase"`
	Records []FileRecord `xml:"file"`
}

// Add appends a record, preserving insertion order.
func (d *Document) Add(r FileRecord) {
	d.Records = append(d.Records, r)
}

// Len reports the number of records.
func (d *Document) Len() int { return len(d.Records) }

// Result summarizes a completed run.
type Result struct {
	Output  string   // Path of the written document; empty if nothing was written.
	Files   int      // Records written.
	Skipped []string // Files left out under ReadPolicySkip.
}
