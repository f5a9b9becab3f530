package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attributes that make the browser fetch a resource.
var resourceAttrs = map[string]bool{
	"src":        true,
	"href":       true,
	"srcset":     true,
	"poster":     true,
	"data":       true,
	"background": true,
}

var (
	cssURLPattern    = regexp.MustCompile(`(?i)url\(\s*(?:"([^"]*)"|'([^']*)'|([^)'"]*))\s*\)`)
	cssImportPattern = regexp.MustCompile(`(?i)@import\s+(?:"([^"]*)"|'([^']*)')`)
)

// VerifySelfContained returns ErrExternalReference if any resource attribute,
// inline style or <style> block in doc points anywhere but a data: URI.
// Empty values and in-document #fragments are allowed.
func VerifySelfContained(doc string) error {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	return verifyNode(root)
}

func verifyNode(n *html.Node) error {
	switch n.Type {
	case html.ElementNode:
		for _, a := range n.Attr {
			if resourceAttrs[a.Key] && !isInline(a.Val) {
				return external(n.Data, a.Key, a.Val)
			}
			if a.Key == "style" {
				if err := verifyCSS(n.Data, a.Val); err != nil {
					return err
				}
			}
		}
	case html.TextNode:
		if n.Parent != nil && n.Parent.DataAtom == atom.Style {
			if err := verifyCSS("style", n.Data); err != nil {
				return err
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := verifyNode(c); err != nil {
			return err
		}
	}
	return nil
}

func verifyCSS(element, css string) error {
	for _, pattern := range []*regexp.Regexp{cssURLPattern, cssImportPattern} {
		for _, m := range pattern.FindAllStringSubmatch(css, -1) {
			ref := strings.Join(m[1:], "")
			if !isInline(ref) {
				return external(element, "url()", ref)
			}
		}
	}
	return nil
}

// filteredURL is what html/template substitutes for a URL it refused.
const filteredURL = "#ZgotmplZ"

func isInline(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == filteredURL {
		return false
	}
	return ref == "" ||
		strings.HasPrefix(ref, "#") ||
		strings.HasPrefix(strings.ToLower(ref), "data:")
}

func external(element, attr, ref string) error {
	if len(ref) > 80 {
		ref = ref[:80] + "..."
	}
	return fmt.Errorf("%w: <%s %s=%q>", ErrExternalReference, element, attr, ref)
}
