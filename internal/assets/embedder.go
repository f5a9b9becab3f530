package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
)

// DefaultIconColor fills icons when no color is given.
const DefaultIconColor = "#f7f7f8"

// Embedder turns assets from a Source into base64 data URIs.
type Embedder struct {
	src Source
}

// NewEmbedder creates an Embedder reading from src.
func NewEmbedder(src Source) *Embedder {
	return &Embedder{src: src}
}

// EmbedImage returns the asset at name as a data URI. The MIME type follows
// the extension and defaults to image/png.
func (e *Embedder) EmbedImage(name string) (string, error) {
	data, err := e.src.ReadAsset(name)
	if err != nil {
		return "", err
	}
	return dataURI(imageMIME(name), data), nil
}

// EmbedIcon returns assets/icons/{name}.svg as a data URI with fill="color"
// inserted on every <path element. The markup is not parsed. An empty color
// uses DefaultIconColor.
func (e *Embedder) EmbedIcon(name, color string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	if color == "" {
		color = DefaultIconColor
	}

	data, err := e.src.ReadAsset(IconDir + "/" + name + ".svg")
	if err != nil {
		return "", err
	}
	return dataURI("image/svg+xml", RecolorSVG(data, color)), nil
}

// EmbedFont returns the font at name as a data URI typed by its extension.
func (e *Embedder) EmbedFont(name string) (string, error) {
	data, err := e.src.ReadAsset(name)
	if err != nil {
		return "", err
	}
	return dataURI(fontMIME(name), data), nil
}

// RecolorSVG inserts a fill attribute after every "<path" in svg.
func RecolorSVG(svg []byte, color string) []byte {
	return bytes.ReplaceAll(svg, []byte("<path"), []byte(fmt.Sprintf(`<path fill="%s"`, color)))
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func fontMIME(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".woff":
		return "font/woff"
	default:
		return "font/woff2"
	}
}

func imageMIME(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
