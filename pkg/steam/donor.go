package steam

import (
	"strings"

	"golang.org/x/net/html"
)

// FetchDonorAchievements scrapes a donor profile's achievement page for a
// title and returns the (display name, description) pairs visible on it.
// Private profiles, missing stats pages and markup changes all surface as
// errors or empty slices; the recovery engine treats both the same way.
func (c *Client) FetchDonorAchievements(appID string, steamID int64) ([]DonorAchievement, error) {
	body, err := c.fetchBody(c.profileClient, ProfileAchievementsURL(steamID, appID))
	if err != nil {
		return nil, err
	}

	return parseProfileAchievements(body)
}

// parseProfileAchievements extracts achievement rows from profile page HTML
func parseProfileAchievements(body []byte) ([]DonorAchievement, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	var achievements []DonorAchievement
	for _, row := range findByClass(doc, "div", "achieveRow") {
		name := strings.TrimSpace(textOfFirst(row, "h3"))
		description := strings.TrimSpace(textOfFirst(row, "h5"))
		if name == "" || description == "" {
			continue
		}
		achievements = append(achievements, DonorAchievement{
			Name:        name,
			Description: description,
		})
	}

	return achievements, nil
}

// findByClass collects all elements with the given tag carrying the CSS class
func findByClass(n *html.Node, tag, class string) []*html.Node {
	var matches []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag && hasClass(node, class) {
			matches = append(matches, node)
			// achieveRow divs do not nest
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return matches
}

// hasClass checks whether an element's class attribute contains the class
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// textOfFirst returns the concatenated text of the first descendant with the tag
func textOfFirst(n *html.Node, tag string) string {
	var found *html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == tag {
			found = node
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	if found == nil {
		return ""
	}

	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(found)

	return sb.String()
}
