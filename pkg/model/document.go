package model

import "encoding/json"

// Document is a parsed diagram file: a flat element list in z-order plus
// document-level state.
type Document struct {
	Type     string          `json:"type"`
	Version  int             `json:"version,omitempty"`
	Source   string          `json:"source,omitempty"`
	Elements []Element       `json:"elements"`
	AppState json.RawMessage `json:"appState,omitempty"`
}

// appState is the subset of document state the renderer cares about.
type appState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
}

// ViewBackgroundColor returns the document's stored background color,
// or the empty string when none is present.
func (d *Document) ViewBackgroundColor() string {
	if len(d.AppState) == 0 {
		return ""
	}
	var st appState
	if err := json.Unmarshal(d.AppState, &st); err != nil {
		return ""
	}
	return st.ViewBackgroundColor
}

// Visible returns the non-deleted elements in z-order.
// Deleted elements stay in d.Elements but take no part in rendering.
func (d *Document) Visible() []Element {
	out := make([]Element, 0, len(d.Elements))
	for _, e := range d.Elements {
		if !e.IsDeleted {
			out = append(out, e)
		}
	}
	return out
}
