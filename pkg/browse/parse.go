package browse

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lordzed/achievement-viewer/pkg/steam"
)

// parseListing extracts achievements from the rendered listing document.
// Rows carry the API name in a data attribute, bare icon identifiers that
// are expanded against the community CDN, and a class marker for hidden
// achievements.
func parseListing(rendered, appID string) ([]steam.SchemaAchievement, error) {
	doc, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var achievements []steam.SchemaAchievement

	for _, row := range collectByClass(doc, "div", "achievement") {
		apiName := attrValue(row, "data-api-name")
		if apiName == "" {
			continue
		}

		entry := steam.SchemaAchievement{
			APIName:     apiName,
			DisplayName: classText(row, "achievement-name"),
			Description: classText(row, "achievement-description"),
			Hidden:      rowHasClass(row, "hidden-achievement"),
		}
		if entry.DisplayName == "" {
			entry.DisplayName = apiName
		}

		if icon := firstByClass(row, "img", "achievement-icon"); icon != nil {
			entry.Icon = iconURL(appID, attrValue(icon, "data-icon"))
			entry.IconGray = iconURL(appID, attrValue(icon, "data-icon-locked"))
		}

		achievements = append(achievements, entry)
	}

	return achievements, nil
}

// iconURL expands a bare icon identifier into a full CDN URL. Identifiers
// that already look like URLs pass through unchanged.
func iconURL(appID, icon string) string {
	if icon == "" {
		return ""
	}
	if strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") {
		return icon
	}
	return fmt.Sprintf(iconURLFormat, appID, strings.TrimSuffix(icon, ".jpg"))
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func rowHasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func collectByClass(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag && rowHasClass(node, class) {
			out = append(out, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func firstByClass(n *html.Node, tag, class string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == tag && rowHasClass(node, class) {
			found = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// classText returns the trimmed text content of the first descendant of any
// tag carrying the given class.
func classText(n *html.Node, class string) string {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && rowHasClass(node, class) {
			found = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	if found == nil {
		return ""
	}

	var b strings.Builder
	var text func(*html.Node)
	text = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			text(c)
		}
	}
	text(found)
	return strings.TrimSpace(b.String())
}
