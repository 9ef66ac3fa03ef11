package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

type navItem struct {
	Key   string
	Label string
	Href  string
}

var nav = []navItem{
	{"home", "Live", "/"},
	{"drivers", "Drivers", "/drivers"},
	{"teams", "Teams", "/teams"},
	{"standings", "Standings", "/standings"},
	{"compare", "Compare", "/compare"},
}

type LayoutProps struct {
	Title  string
	Active string // nav key
	// RefreshSeconds adds a meta refresh when positive.
	RefreshSeconds int
}

const style = `body{font-family:system-ui,sans-serif;margin:0;background:#0b0d12;color:#e5e7eb}` +
	`nav{display:flex;gap:1rem;padding:1rem 2rem;background:#15171e;border-bottom:2px solid #e10600}` +
	`nav a{color:#9ca3af;text-decoration:none}nav a.active{color:#fff;font-weight:600}` +
	`main{padding:1.5rem 2rem}table{border-collapse:collapse;width:100%}` +
	`td,th{padding:.4rem .6rem;border-bottom:1px solid #262a33;text-align:left}` +
	`.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:1rem}` +
	`.card{background:#15171e;border-radius:8px;padding:1rem;border-left:4px solid var(--team,#9ca3af)}` +
	`.state{padding:2rem;border-radius:8px;background:#15171e}.muted{color:#9ca3af}`

func Layout(p LayoutProps, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if p.RefreshSeconds > 0 {
			h.raw(`<meta http-equiv="refresh" content="` + strconv.Itoa(p.RefreshSeconds) + `">`)
		}
		title := "Race Delta"
		if p.Title != "" {
			title = p.Title + " · Race Delta"
		}
		h.el("title", "", title)
		h.raw("<style>" + style + "</style></head><body><nav>")
		h.el("strong", "", "RACE DELTA")
		for _, item := range nav {
			class := ""
			if item.Key == p.Active {
				class = "active"
			}
			h.link(item.Href, class, item.Label)
		}
		h.raw("</nav><main>")
		h.child(ctx, body)
		h.raw("</main></body></html>")
	})
}

// Offline is shown when no backend origin could be resolved.
func Offline() templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<section class="state offline">`)
		h.el("h2", "", "No backend available")
		h.el("p", "muted", "None of the configured analytics backends answered. Set RACEDELTA_API_BASE or start a backend, then reload.")
		h.link("/api/base", "", "Resolution report")
		h.raw("</section>")
	})
}

func ErrorState(message string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<section class="state error">`)
		h.el("h2", "", "Something went wrong")
		h.el("p", "muted", message)
		h.raw("</section>")
	})
}

func EmptyState(message string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<section class="state empty">`)
		h.el("p", "muted", message)
		h.raw("</section>")
	})
}
