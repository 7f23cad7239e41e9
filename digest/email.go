package digest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/loomreport"
)

// LongDate formats t as "October 18th, 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", t.Month(), humanize.Ordinal(t.Day()), t.Year())
}

// Email returns the digest email as a templ component.
func Email(opts Options, weekLabel string, posts []loomreport.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		esc := templ.EscapeString[string]
		site := esc(opts.SiteName)

		b.WriteString("<!DOCTYPE html>\n<html>\n  <head>\n    <meta charset=\"utf-8\" />\n")
		fmt.Fprintf(&b, "    <title>%s Digest — %s</title>\n", site, esc(weekLabel))
		b.WriteString("  </head>\n")
		b.WriteString(`  <body style="font-family:Inter,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,sans-serif; max-width:620px; margin:0 auto; padding:2rem; background:#0f172a0d;">` + "\n")
		b.WriteString(`    <header style="margin-bottom:2rem;">` + "\n")
		fmt.Fprintf(&b, "      <h1 style=\"margin:0 0 0.5rem;\">%s Digest</h1>\n", site)
		fmt.Fprintf(&b, "      <p style=\"margin:0; color:#475569;\">Coverage window: %s</p>\n", esc(weekLabel))
		b.WriteString("    </header>\n")

		for _, p := range posts {
			writeArticle(&b, opts.SiteURL, p)
		}

		b.WriteString(`    <hr style="margin:3rem 0; border:0; border-top:1px solid #cbd5f5;"/>` + "\n")
		b.WriteString(`    <footer style="font-size:0.8rem; color:#475569;">` + "\n")
		fmt.Fprintf(&b, "      <p>You are receiving this newsletter because you subscribed to %s.</p>\n", site)
		fmt.Fprintf(&b, "      <p><a href=\"%s\">Unsubscribe</a> · <a href=\"%s\">Visit the site</a></p>\n",
			esc(opts.UnsubscribeURL), esc(opts.SiteURL))
		b.WriteString("    </footer>\n  </body>\n</html>\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeArticle(b *strings.Builder, siteURL string, p loomreport.Post) {
	esc := templ.EscapeString[string]
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, "#"+t)
	}

	b.WriteString(`    <article style="margin-bottom:2rem;">` + "\n")
	fmt.Fprintf(b, "      <h2 style=\"margin-bottom:0.25rem;\"><a href=\"%s\">%s</a></h2>\n", esc(siteURL+p.URL), esc(p.Title))
	fmt.Fprintf(b, "      <p style=\"margin-top:0; color:#475569;\"><em>%s</em></p>\n", esc(LongDate(p.Date)))
	fmt.Fprintf(b, "      <p style=\"line-height:1.6;\">%s</p>\n", esc(p.Description))
	fmt.Fprintf(b, "      <p style=\"font-size: 0.9rem; color: #6366f1;\">%s</p>\n", esc(strings.Join(tags, " ")))
	b.WriteString("    </article>\n")
}
