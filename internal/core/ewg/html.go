package ewg

import (
	"strings"

	"golang.org/x/net/html"

	"ingredient-safety/internal/pkg/common"
)

var listingClasses = []string{"product-tile", "ingredient-tile", "product-listing"}

// parseListingHTML 取第一個列表節點的分數、關注原因、功能與用途
func parseListingHTML(markup string) (Listing, bool) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return Listing{}, false
	}

	node := findFirst(doc, func(n *html.Node) bool {
		for _, c := range listingClasses {
			if hasClass(n, c) {
				return true
			}
		}
		return false
	})
	if node == nil {
		return Listing{}, false
	}

	var listing Listing
	if n := findFirst(node, func(n *html.Node) bool {
		return hasClass(n, "product-score") || hasClass(n, "score")
	}); n != nil {
		listing.ScoreText = textContent(n)
		if listing.ScoreText == "" {
			listing.ScoreText = attr(n, "data-score")
		}
	}
	if listing.ScoreText == "" {
		if n := findFirst(node, func(n *html.Node) bool { return attr(n, "data-score") != "" }); n != nil {
			listing.ScoreText = attr(n, "data-score")
		}
	}
	if listing.ScoreText == "" {
		if n := findFirst(node, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "img" && attr(n, "alt") != ""
		}); n != nil {
			listing.ScoreText = attr(n, "alt")
		}
	}

	var concerns []string
	for _, n := range findAll(node, func(n *html.Node) bool { return hasClass(n, "concern") }) {
		concerns = append(concerns, textContent(n))
	}
	listing.Concerns = common.JoinNonEmpty(concerns)

	if n := findFirst(node, func(n *html.Node) bool { return hasClass(n, "ingredient-function") }); n != nil {
		listing.Function = textContent(n)
	}
	if n := findFirst(node, func(n *html.Node) bool { return hasClass(n, "ingredient-use") }); n != nil {
		listing.Use = textContent(n)
	}
	return listing, true
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textContent 節點內所有文字，空白合併為單一空格
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
