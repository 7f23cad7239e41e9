package digest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/go-wordwrap"
)

// HTMLToText renders an HTML document as wrapped plain text. Headings are
// upper-cased and links keep their target in brackets.
func HTMLToText(html string, width uint) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	tw := &textWriter{width: width}
	tw.walk(doc.Find("body"))
	tw.flush()
	if len(tw.blocks) == 0 {
		return "", nil
	}
	return strings.Join(tw.blocks, "\n\n") + "\n", nil
}

type textWriter struct {
	width  uint
	blocks []string
	cur    strings.Builder
	upper  bool
}

func (tw *textWriter) write(s string) {
	if tw.upper {
		s = strings.ToUpper(s)
	}
	tw.cur.WriteString(s)
}

func (tw *textWriter) flush() {
	text := strings.Join(strings.Fields(tw.cur.String()), " ")
	tw.cur.Reset()
	if text != "" {
		tw.blocks = append(tw.blocks, wordwrap.WrapString(text, tw.width))
	}
}

func (tw *textWriter) walk(sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			tw.write(c.Text())
		case "head", "title", "style", "script", "#comment":
		case "br":
			tw.write(" ")
		case "hr":
			tw.flush()
			tw.blocks = append(tw.blocks, strings.Repeat("-", int(tw.width)))
		case "h1", "h2", "h3", "h4", "h5", "h6":
			tw.flush()
			tw.upper = true
			tw.walk(c)
			tw.upper = false
			tw.flush()
		case "a":
			text := strings.Join(strings.Fields(c.Text()), " ")
			tw.write(text)
			href, _ := c.Attr("href")
			if href != "" && !strings.HasPrefix(href, "#") && href != text {
				tw.cur.WriteString(" [" + href + "]")
			}
		case "p", "div", "article", "header", "footer", "section", "ul", "ol", "li", "table", "tr", "blockquote":
			tw.flush()
			tw.walk(c)
			tw.flush()
		default:
			tw.walk(c)
		}
	})
}
