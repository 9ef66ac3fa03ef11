package templates

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// html writes markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// el writes <tag class="...">escaped text</tag>.
func (h *html) el(tag, class, s string) {
	if class != "" {
		h.raw("<" + tag + ` class="` + templ.EscapeString(class) + `">`)
	} else {
		h.raw("<" + tag + ">")
	}
	h.text(s)
	h.raw("</" + tag + ">")
}

func (h *html) link(href, class, s string) {
	h.raw(`<a href="` + templ.EscapeString(href) + `"`)
	if class != "" {
		h.raw(` class="` + templ.EscapeString(class) + `"`)
	}
	h.raw(">")
	h.text(s)
	h.raw("</a>")
}

func (h *html) child(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

var printer = message.NewPrinter(language.English)

// points formats championship points: whole numbers with grouping, halves
// with one decimal.
func points(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.1f", v)
}

func ordinal(pos int) string {
	if pos <= 0 {
		return "-"
	}
	return humanize.Ordinal(pos)
}

func updated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return "Updated " + humanize.Time(t)
}

// lapTime renders seconds as m:ss.mmm.
func lapTime(sec float64) string {
	if sec <= 0 {
		return "-"
	}
	m := int(sec) / 60
	s := sec - float64(m*60)
	if m == 0 {
		return fmt.Sprintf("%.3f", s)
	}
	return fmt.Sprintf("%d:%06.3f", m, s)
}

func itoa(n int) string {
	if n <= 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func pathJoin(parts ...string) string {
	out := ""
	for _, p := range parts {
		out += "/" + url.PathEscape(p)
	}
	return out
}
