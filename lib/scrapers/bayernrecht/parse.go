package bayernrecht

import (
	"bayrecht-backend/lib/htmlutil"
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoHeading means the page lacks the heading block every provision
// page carries. This is a broken or foreign page, not a numbering gap;
// gaps surface as 404 at the fetch layer.
var ErrNoHeading = fmt.Errorf("norm page is missing its heading block")

var normNumberRegex = regexp.MustCompile(`[0-9]+[a-z]?`)

// ParseNorm extracts a structured NormRecord from a provision page.
func ParseNorm(page []byte) (NormRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return NormRecord{}, err
	}

	heading := doc.Find("div.paraheading").First()
	if heading.Length() == 0 {
		return NormRecord{}, ErrNoHeading
	}

	numberRaw := htmlutil.CollapseSpace(heading.Find("div.paranr").Text())
	number := normNumberRegex.FindString(numberRaw)
	if number == "" {
		number = numberRaw
	}
	title := htmlutil.CollapseSpace(heading.Find("div.paratitel").Text())

	content := []Block{}
	container := doc.Find("div.paracontent").First()
	if container.Length() == 0 {
		slog.Warn("norm page has no content container", "number", numberRaw)
	} else {
		content = parseBlocks(container)
	}

	return NormRecord{
		Number:     number,
		NumberRaw:  numberRaw,
		Title:      title,
		Content:    content,
		References: []string{},
	}, nil
}

// parseBlocks walks the content container's direct children in
// document order. A dl directly after a paragraph is that paragraph's
// enumeration (lookahead of exactly one sibling), a dl on its own
// becomes a standalone list, anything else is ignored.
func parseBlocks(container *goquery.Selection) []Block {
	content := []Block{}
	children := container.Children()

	absorbed := false
	for i := 0; i < children.Length(); i++ {
		if absorbed {
			absorbed = false
			continue
		}
		child := children.Eq(i)
		switch {
		case child.Is("div.paratext"):
			block := Block{Kind: BlockParagraph, Text: renderInline(child)}
			if i+1 < children.Length() {
				next := children.Eq(i + 1)
				if next.Is("dl") {
					block.Items = listItems(next)
					absorbed = true
				}
			}
			content = append(content, block)
		case child.Is("dl"):
			content = append(content, Block{Kind: BlockList, Items: listItems(child)})
		}
	}
	return content
}

func listItems(dl *goquery.Selection) []string {
	var items []string
	dl.ChildrenFiltered("dd").Each(func(_ int, dd *goquery.Selection) {
		items = append(items, renderInline(dd))
	})
	return items
}

// renderInline flattens a paragraph-like node to text, turning
// sup.satznr sentence markers into <satznr>N</satznr> tags.
func renderInline(sel *goquery.Selection) string {
	var out strings.Builder
	for _, node := range sel.Contents().Nodes {
		switch {
		case node.Type == html.TextNode:
			out.WriteString(node.Data)
		case node.Type == html.ElementNode && node.Data == "sup" && htmlutil.HasClass(node, "satznr"):
			num := strings.TrimSpace(htmlutil.GetText(node))
			fmt.Fprintf(&out, "<satznr>%s</satznr>", num)
		default:
			out.WriteString(htmlutil.GetText(node))
		}
	}
	return htmlutil.CollapseSpace(out.String())
}

var overviewDateRegex = regexp.MustCompile(`Stand:?\s*([0-9]{2}\.[0-9]{2}\.[0-9]{4})`)

// ParseOverviewDate pulls the publication date (DD.MM.YYYY, after the
// "Stand:" label) out of a law's overview page.
func ParseOverviewDate(page []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", false
	}
	groups := overviewDateRegex.FindStringSubmatch(doc.Text())
	if groups == nil {
		return "", false
	}
	return groups[1], true
}
