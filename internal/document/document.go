// Package document renders the printable forms of a purchase request.
package document

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

//go:embed templates
var content embed.FS

// Kind names a printable form.
type Kind string

const (
	KindPR  Kind = "pr"
	KindPO  Kind = "po"
	KindOBR Kind = "obr"
	KindDV  Kind = "dv"
)

var Kinds = []Kind{KindPR, KindPO, KindOBR, KindDV}

var ErrUnknownKind = errors.New("unknown document kind")

// ParseKind accepts the kind case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(s))
	for _, v := range Kinds {
		if v == k {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Letterhead is the fixed text printed on every form: the issuing office and
// the officials who sign.
type Letterhead struct {
	Agency           string
	Province         string
	Municipality     string
	Office           string
	DefaultAddress   string
	DeliveryPlace    string
	AccountCode      string
	RequestedBy      string
	RequestedByTitle string
	ApprovedBy       string
	ApprovedByTitle  string
}

// Disbursement vouchers withhold these shares of the total.
var (
	withholdingRate5 = decimal.RequireFromString("0.05")
	withholdingRate1 = decimal.RequireFromString("0.01")
)

type page struct {
	Letterhead
	Purchase *purchase.Purchase

	Less5 decimal.Decimal
	Less1 decimal.Decimal
	Net   decimal.Decimal
}

type Renderer struct {
	letterhead Letterhead
	templates  map[Kind]*template.Template
}

// New parses every form against the shared layout.
func New(letterhead Letterhead) (*Renderer, error) {
	tfs, err := fs.Sub(content, "templates")
	if err != nil {
		return nil, fmt.Errorf("opening templates: %w", err)
	}

	r := &Renderer{letterhead: letterhead, templates: make(map[Kind]*template.Template, len(Kinds))}

	for _, kind := range Kinds {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(tfs, "layout.html", string(kind)+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", kind, err)
		}

		r.templates[kind] = tmpl
	}

	return r, nil
}

// Render writes the complete HTML page for p.
func (r *Renderer) Render(w io.Writer, kind Kind, p *purchase.Purchase) error {
	tmpl, ok := r.templates[kind]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}

	data := page{Letterhead: r.letterhead, Purchase: p}
	if kind == KindDV {
		data.Less5 = p.TotalAmount.Mul(withholdingRate5)
		data.Less1 = p.TotalAmount.Mul(withholdingRate1)
		data.Net = p.TotalAmount.Sub(data.Less5).Sub(data.Less1)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering %s: %w", kind, err)
	}

	return nil
}

var funcs = template.FuncMap{
	"amount": Amount,
	"seq":    func(i int) int { return i + 1 },
	"stockNo": func(i int) string {
		return fmt.Sprintf("%03d", i+1)
	},
}

// Amount renders a decimal with two places and thousands separators.
func Amount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + "." + frac
}
