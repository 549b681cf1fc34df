// ABOUTME: Converts HTML item descriptions to markdown for the detail view
// ABOUTME: Plain-text descriptions pass through unchanged

package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// DescriptionMarkdown returns desc as markdown, converting it first when it
// contains HTML markup.
func DescriptionMarkdown(desc string) string {
	if !looksLikeHTML(desc) {
		return desc
	}
	doc, err := html.Parse(strings.NewReader(desc))
	if err != nil {
		return desc
	}
	var b strings.Builder
	writeMarkdown(doc, &b, false)
	return collapseBlankLines(b.String())
}

// looksLikeHTML reports whether s contains at least one start tag.
func looksLikeHTML(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

func writeMarkdown(n *html.Node, b *strings.Builder, inPre bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "iframe", "noscript":
			return
		case "h1":
			b.WriteString("\n# ")
		case "h2":
			b.WriteString("\n## ")
		case "h3", "h4", "h5", "h6":
			b.WriteString("\n### ")
		case "p", "div", "section":
			b.WriteString("\n\n")
		case "br":
			b.WriteString("\n")
		case "li":
			b.WriteString("\n- ")
		case "pre":
			b.WriteString("\n```\n")
			inPre = true
		case "code":
			if !inPre {
				b.WriteString("`")
			}
		case "a":
			if href := attr(n, "href"); href != "" {
				if text := innerText(n); text != "" {
					fmt.Fprintf(b, "[%s](%s)", text, href)
					return
				}
			}
		case "img":
			if src := attr(n, "src"); src != "" {
				fmt.Fprintf(b, "![%s](%s)", attr(n, "alt"), src)
			}
		case "strong", "b":
			b.WriteString("**")
		case "em", "i":
			b.WriteString("*")
		}
	}

	if n.Type == html.TextNode {
		text := n.Data
		if !inPre {
			text = squeeze(text)
		}
		if text != "" {
			b.WriteString(text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeMarkdown(c, b, inPre)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "pre":
			b.WriteString("\n```\n")
		case "code":
			if !inPre {
				b.WriteString("`")
			}
		case "strong", "b":
			b.WriteString("**")
		case "em", "i":
			b.WriteString("*")
		case "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol":
			b.WriteString("\n")
		}
	}
}

// squeeze collapses whitespace runs to one space, keeping a single space at
// either edge so inline elements stay separated from their neighbours.
func squeeze(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		if text != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if unicode.IsSpace(rune(text[0])) {
		out = " " + out
	}
	if unicode.IsSpace(rune(text[len(text)-1])) {
		out += " "
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func innerText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// collapseBlankLines trims the result and squeezes runs of blank lines.
func collapseBlankLines(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " ")
		if l == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
