// Package view renders the portal page: the claim form, the lookup box and
// whichever modal, alert or detail card the last action produced.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Bootstrap contextual classes used by modals, alerts and badges.
const (
	VariantSuccess   = "success"
	VariantDanger    = "danger"
	VariantWarning   = "warning"
	VariantInfo      = "info"
	VariantSecondary = "secondary"
)

// PolicyTypes are the options offered for tipo_poliza.
var PolicyTypes = []string{"TERCEROS", "TODO_RIESGO", "TODO_RIESGO_FRANQUICIA"}

// Page is everything one render needs. Zero value renders an empty form.
type Page struct {
	Form    map[string]string
	Invalid map[string]bool
	Modal   *Modal
	Query   string
	Alert   *Alert
	Detail  *DetailCard
}

type Modal struct {
	Title   string
	Message string
	Detail  string
	Variant string
	Rows    []Row
}

type Row struct {
	Label  string
	Value  string
	Strong bool
}

type Alert struct {
	Variant string
	Message string
}

// DetailCard is a looked-up claim, already formatted for display.
type DetailCard struct {
	IDSiniestro string
	Cliente     string
	DNI         string
	Email       string
	Taller      string

	Matricula string
	Vehiculo  string // make, model and year

	TipoPoliza string
	Limite     string
	Franquicia string

	ManoObra string
	Piezas   string
	Total    string

	PagoAseguradora string
	PagoCliente     string
	ShowSplit       bool
	SplitEstimated  bool
	Note            string

	Estado      string
	StatusBadge string
	DocumentURL string
}

type fieldData struct {
	Page  *Page
	Name  string
	Label string
	Type  string
	Col   string
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"value": func(form map[string]string, key string) string {
			return form[key]
		},
		"invalid": func(invalid map[string]bool, key string) string {
			if invalid[key] {
				return " is-invalid"
			}
			return ""
		},
		"policyTypes": func() []string { return PolicyTypes },
		"field": func(page *Page, name, label, typ, col string) fieldData {
			return fieldData{Page: page, Name: name, Label: label, Type: typ, Col: col}
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes page with status. Nothing is written if the template fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page *Page) error {
	if page == nil {
		page = &Page{}
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index", page); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
