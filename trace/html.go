/*
Copyright © 2026 purgescope contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package trace

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ScriptTag represents a <script> tag found in an HTML entry document.
type ScriptTag struct {
	Type    string   // The type attribute (e.g., "module")
	Src     string   // The src attribute (external script)
	Inline  bool     // True if script has inline content
	Content string   // The inline script content
	Imports []string // Import specifiers found in inline content
}

// Document is the traceable surface of an HTML entry: the scripts it
// runs and the stylesheets it links.
type Document struct {
	Scripts     []ScriptTag
	Stylesheets []string
}

// ParseDocument extracts script tags and local stylesheet links from
// HTML content.
func ParseDocument(content []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	doc := &Document{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script":
				doc.Scripts = append(doc.Scripts, scriptFromNode(n))
			case "link":
				if href, ok := stylesheetHref(n); ok {
					doc.Stylesheets = append(doc.Stylesheets, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return doc, nil
}

func scriptFromNode(n *html.Node) ScriptTag {
	script := ScriptTag{}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "type":
			script.Type = attr.Val
		case "src":
			script.Src = attr.Val
		}
	}

	if script.Src == "" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		if content := strings.TrimSpace(sb.String()); content != "" {
			script.Content = content
			script.Inline = true
		}
	}

	// Parse imports from inline content (best-effort; syntax errors are ignored)
	// Handle both type="module" (static + dynamic) and regular scripts (dynamic only)
	if script.Inline {
		imports, _ := ExtractImports([]byte(script.Content))
		for _, imp := range imports {
			if script.Type == "module" || imp.IsDynamic {
				script.Imports = append(script.Imports, imp.Specifier)
			}
		}
	}

	return script
}

// stylesheetHref returns the href of a local stylesheet link, skipping
// remote URLs.
func stylesheetHref(n *html.Node) (string, bool) {
	var rel, href string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "rel":
			rel = attr.Val
		case "href":
			href = attr.Val
		}
	}
	if !strings.EqualFold(rel, "stylesheet") || href == "" {
		return "", false
	}
	if strings.Contains(href, "://") {
		return "", false
	}
	return href, true
}
