// Package pipeline turns preview data into a self-contained HTML document.
//
// The template is an html/template resolved through an assets.Source. Data
// URIs are passed as template.URL so the escaper keeps them intact. Every
// rendered document is checked by VerifySelfContained before it is returned.
//
// Rasterizing the document is handled by the root ogimage package with
// headless Chrome (go-rod).
package pipeline
