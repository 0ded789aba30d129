// Package io reads diagram documents from JSON and writes rendered
// artifacts to disk.
package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/roughcast/roughcast/pkg/errors"
	"github.com/roughcast/roughcast/pkg/model"
)

// rawDocument defers element decoding so per-element defaults can be applied
// before unmarshaling. A plain decode cannot tell an absent opacity from an
// explicit zero.
type rawDocument struct {
	Type     string            `json:"type"`
	Version  int               `json:"version"`
	Source   string            `json:"source"`
	Elements []json.RawMessage `json:"elements"`
	AppState json.RawMessage   `json:"appState"`
}

// ReadDocument decodes a diagram document from r.
//
// Each element gets wire-format defaults (opacity 100, roughness 1) for
// absent fields, a generated ID when none is present, and is normalized and
// validated. Malformed JSON and invalid elements return an error; unknown
// element types are kept and skipped later at render time.
//
// ReadDocument does not close r.
func ReadDocument(r io.Reader) (*model.Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding document")
	}

	doc := &model.Document{
		Type:     raw.Type,
		Version:  raw.Version,
		Source:   raw.Source,
		AppState: raw.AppState,
		Elements: make([]model.Element, 0, len(raw.Elements)),
	}
	for i, data := range raw.Elements {
		el := model.Element{Opacity: 100, Roughness: 1}
		if err := json.Unmarshal(data, &el); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "element %d", i)
		}
		if el.ID == "" {
			el.ID = uuid.NewString()
		}
		el.Normalize()
		if err := validateElement(&el); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "element %d (%s)", i, el.ID)
		}
		doc.Elements = append(doc.Elements, el)
	}
	return doc, nil
}

// LoadDocument reads and decodes the document file at path.
func LoadDocument(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "opening %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}

func validateElement(e *model.Element) error {
	if err := errors.ValidateElementID(e.ID); err != nil {
		return err
	}
	if err := errors.ValidateOpacity(e.Opacity); err != nil {
		return err
	}
	return errors.ValidateDimensions(e.Width, e.Height)
}
