package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"remape/internal/auth"
	"remape/internal/core"
	"remape/internal/log"
)

type loginView struct {
	Error string
}

type sheetLink struct {
	Name  string
	Label string
}

type indexView struct {
	UserName  string
	SuperUser bool
	Sheets    []sheetLink
}

type sheetView struct {
	Name           string
	Label          string
	UserName       string
	VendorFiltered bool
	StartDate      string
	EndDate        string

	Columns []string
	Rows    []core.Row
	Count   int

	Expenses *core.ExpenseTotals
	Sales    *core.SalesTotals

	// Chart payloads for the sales page, pre-marshaled for the inline
	// Chart.js bootstrap.
	IndustryChart template.JS
	GroupChart    template.JS
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", name, "error", err)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", loginView{})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Malformed login form", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "login.html", loginView{Error: "Requisição inválida"})
		return
	}

	login := strings.TrimSpace(r.PostForm.Get("login"))
	password := r.PostForm.Get("password")

	id, err := s.auth.Authenticate(login, password)
	if err != nil {
		// One generic message for every failure mode; the distinction
		// stays in the server log.
		log.FromContext(ctx).InfoContext(ctx, "Login rejected",
			"login", login, "client_ip", clientIP(r), "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, r, "login.html", loginView{Error: "Usuário ou senha incorretos"})
		return
	}

	token, err := s.auth.IssueToken(id)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Token issue failed", "login", login, "error", err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, token, s.tokenTTL)
	log.FromContext(ctx).InfoContext(ctx, "Login succeeded", "login", login)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	view := indexView{
		UserName:  id.DisplayName,
		SuperUser: strings.EqualFold(id.Login, s.reports.SuperUser()),
	}
	for _, kind := range core.Kinds() {
		d := kind.Descriptor()
		view.Sheets = append(view.Sheets, sheetLink{Name: d.Name, Label: d.Label})
	}
	s.render(w, r, "index.html", view)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind := kindFromContext(ctx)
	id, _ := auth.IdentityFromContext(ctx)

	startRaw := r.URL.Query().Get("start_date")
	endRaw := r.URL.Query().Get("end_date")
	start := core.ParseISODate(startRaw)
	end := core.ParseISODate(endRaw)

	report, err := s.reports.BuildReport(ctx, kind, id, start, end)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Report build failed",
			"sheet", kind.Name(), "login", id.Login, "error", err)
		http.Error(w, "Erro ao carregar a aba "+kind.Name(), http.StatusInternalServerError)
		return
	}

	d := kind.Descriptor()
	view := sheetView{
		Name:           d.Name,
		Label:          d.Label,
		UserName:       id.DisplayName,
		VendorFiltered: report.VendorFiltered,
		StartDate:      startRaw,
		EndDate:        endRaw,
		Columns:        report.Table.Columns,
		Rows:           report.Table.Rows,
		Count:          report.Summary.Count,
		Expenses:       report.Summary.Expenses,
		Sales:          report.Summary.Sales,
	}
	if view.Sales != nil {
		view.IndustryChart = chartJSON(view.Sales.ByIndustry)
		view.GroupChart = chartJSON(view.Sales.ByGroup)
	}
	s.render(w, r, "sheet.html", view)
}

// chartJSON shapes a breakdown into the labels/values/colors triple the
// doughnut charts consume.
func chartJSON(slices []core.Slice) template.JS {
	payload := struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
		Colors []string  `json:"colors"`
	}{
		Labels: make([]string, 0, len(slices)),
		Values: make([]float64, 0, len(slices)),
		Colors: make([]string, 0, len(slices)),
	}
	for _, sl := range slices {
		payload.Labels = append(payload.Labels, sl.Label)
		payload.Values = append(payload.Values, core.Reais(sl.Cents))
		payload.Colors = append(payload.Colors, sl.Color)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return template.JS(`{"labels":[],"values":[],"colors":[]}`)
	}
	return template.JS(data)
}
