package combine

import (
	"encoding/xml"
	"fmt"
	"io"
)

const indent = "  "

// Encode writes doc as an indented XML document. Contents are emitted as
// escaped character data without added whitespace, so Decode returns them
// byte for byte.
func Encode(w io.Writer, doc *Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", indent)

	root := xml.StartElement{Name: xml.Name{Local: "codebase"}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, r := range doc.Records {
		if err := encodeRecord(enc, r); err != nil {
			return fmt.Errorf("encode %s: %w", r.Filepath, err)
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeRecord(enc *xml.Encoder, r FileRecord) error {
	file := xml.StartElement{Name: xml.Name{Local: "file"}}
	if err := enc.EncodeToken(file); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value string
	}{
		{"filename", r.Filename},
		{"filepath", r.Filepath},
		{"contents", r.Contents},
	}
	for _, f := range fields {
		el := xml.StartElement{Name: xml.Name{Local: f.name}}
		if err := enc.EncodeToken(el); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(f.value)); err != nil {
			return err
		}
		if err := enc.EncodeToken(el.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(file.End())
}

// Decode parses a document produced by Encode.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// Lookup returns the record stored for an absolute path.
func (d *Document) Lookup(path string) (FileRecord, bool) {
	for _, r := range d.Records {
		if r.Filepath == path {
			return r, true
		}
	}
	return FileRecord{}, false
}
