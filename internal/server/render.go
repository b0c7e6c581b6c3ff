package server

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/session"
)

// Pages that can be rendered. Each one is parsed together with the shared layout.
var pageNames = []string{
	"login",
	"register",
	"dashboard",
	"portfolio",
	"stocklists",
	"stocklist_delete",
	"stocklist_detail",
	"friends",
	"transactions",
	"notfound",
	"error",
}

// pageData is the root value every template receives.
type pageData struct {
	Title       string
	Active      string // nav entry to highlight
	Session     session.Session
	BackendDown bool
	Data        any
}

var templateFuncs = template.FuncMap{
	"money":  formatMoney,
	"date":   formatDate,
	"errmsg": domain.UserMessage,
}

func formatMoney(d decimal.Decimal) string {
	f, _ := d.Abs().Round(2).Float64()
	s := "$" + humanize.FormatFloat("#,###.##", f)
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

func formatDate(t domain.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses templates/layout.html plus one templates/<page>.html per page from fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).
			Funcs(templateFuncs).
			ParseFS(fsys, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page wrapped in the layout.
func (r *Renderer) Render(w io.Writer, page string, data pageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
