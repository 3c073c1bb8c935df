// Package render turns a derived table grid into HTML for the web
// dashboard. Templates produce trusted markup from already-escaped data;
// anything user-controlled goes through html/template escaping.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/offerdeck/offerdeck/pkg/table"
)

// FilterControl is one rendered filter widget in the controls panel.
type FilterControl struct {
	Field  table.Field
	Raw    string         // current encoded value, "" when inactive
	From   string         // lower bound for timerange fields
	To     string         // upper bound for timerange fields
	Active []string       // selected options for checkbox fields
	Facets map[string]int // per-option counts for the loaded page
}

// PageData feeds the dashboard page template.
type PageData struct {
	Title        string
	UserName     string
	UserRole     string
	CanCreate    bool
	CanSignIDs   map[string]bool
	ControlsOpen bool
	Controls     []FilterControl
	Grid         table.Grid
	QueryString  string
	Version      string
	ErrorMessage string
}

// TableView holds the parsed dashboard templates.
type TableView struct {
	page   *template.Template
	table  *template.Template
	detail *template.Template
}

// NewTableView parses the built-in templates. A parse failure is a
// programming error and panics at startup rather than at request time.
func NewTableView() *TableView {
	funcs := GetTemplateFuncs()
	return &TableView{
		page:   template.Must(template.New("page").Funcs(funcs).Parse(tableTemplate + pageTemplate)),
		table:  template.Must(template.New("table").Funcs(funcs).Parse(tableTemplate)),
		detail: template.Must(template.New("detail").Funcs(funcs).Parse(detailTemplate)),
	}
}

// RenderPage writes the full dashboard page.
func (v *TableView) RenderPage(w io.Writer, data PageData) error {
	if err := v.page.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// RenderTable renders only the table fragment, used for in-place updates.
func (v *TableView) RenderTable(data PageData) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.table.ExecuteTemplate(&buf, "table", data); err != nil {
		return "", fmt.Errorf("rendering table fragment: %w", err)
	}
	return template.HTML(buf.String()), nil
}

const tableTemplate = `{{define "table"}}
<table class="offers" id="offers-table" data-loading="{{.Grid.Loading}}">
  <thead>
    <tr>
      <th class="select-col">
        <input type="checkbox" class="select-all"{{if .Grid.AllSelected}} checked{{end}}>
      </th>
      {{range .Grid.Headers}}
      <th data-key="{{.Key}}"{{if .Sortable}} class="sortable"{{end}}>
        {{.Title}}{{if isAsc .Dir}} <span class="sort-ind">&#9650;</span>{{else if isDesc .Dir}} <span class="sort-ind">&#9660;</span>{{end}}
      </th>
      {{end}}
      {{if .CanSignIDs}}<th class="actions-col"></th>{{end}}
    </tr>
  </thead>
  <tbody>
    {{if not .Grid.Rows}}
    <tr class="empty"><td colspan="{{add (len .Grid.Headers) 2}}">No offers found</td></tr>
    {{end}}
    {{$page := .}}
    {{range .Grid.Rows}}
    <tr data-id="{{.ID}}"{{if .Selected}} class="selected"{{end}}>
      <td class="select-col"><input type="checkbox" class="select-row"{{if .Selected}} checked{{end}}></td>
      {{range .Cells}}
      <td data-key="{{.Key}}" data-copy="{{.Copy}}" title="Click to copy">
        {{if eq .Key "status"}}<span class="{{statusClass .Text}}">{{title .Text}}</span>{{else}}{{.Text}}{{end}}
      </td>
      {{end}}
      {{if $page.CanSignIDs}}
      <td class="actions-col">{{if index $page.CanSignIDs .ID}}<button type="button" class="sign" data-id="{{.ID}}">Sign</button>{{end}}</td>
      {{end}}
    </tr>
    {{end}}
  </tbody>
</table>
<div class="table-footer">
  <span class="total">{{.Grid.Meta.TotalDocs}} offers</span>
  <span class="pages">
    {{if .Grid.Meta.HasPrevPage}}<a href="#" class="page-link" data-page="{{sub .Grid.Meta.Page 2}}">&laquo; Prev</a>{{end}}
    Page {{.Grid.Meta.Page}} of {{.Grid.Meta.TotalPages}}
    {{if .Grid.Meta.HasNextPage}}<a href="#" class="page-link" data-page="{{.Grid.Meta.Page}}">Next &raquo;</a>{{end}}
  </span>
</div>
{{end}}`

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <div class="identity">{{.UserName}} <span class="role">{{title .UserRole}}</span></div>
  </header>
  {{if .ErrorMessage}}<div class="flash flash-error">{{.ErrorMessage}}</div>{{end}}
  <main>
    <section class="controls{{if not .ControlsOpen}} collapsed{{end}}" id="controls">
      <button type="button" class="controls-toggle">Filters</button>
      <div class="controls-body">
        {{range .Controls}}
        <div class="control" data-key="{{.Field.Key}}" data-kind="{{.Field.Kind}}">
          <label>{{.Field.Label}}</label>
          {{if eq .Field.Kind.String "text"}}
          <input type="text" name="{{.Field.Key}}" value="{{.Raw}}">
          {{else if eq .Field.Kind.String "checkbox"}}
          {{$ctl := .}}
          {{range .Field.Options}}
          <label class="option">
            <input type="checkbox" name="{{$ctl.Field.Key}}" value="{{.Value}}"{{if has $ctl.Active .Value}} checked{{end}}>
            {{.Label}}{{with index $ctl.Facets .Value}} <span class="facet">({{.}})</span>{{end}}
          </label>
          {{end}}
          {{else}}
          <input type="date" name="{{.Field.Key}}From" value="{{.From}}"> &ndash; <input type="date" name="{{.Field.Key}}To" value="{{.To}}">
          {{end}}
        </div>
        {{end}}
      </div>
    </section>
    {{if .CanCreate}}<button type="button" class="button" id="new-offer">New offer</button>{{end}}
    <section id="table-container">
      {{template "table" .}}
    </section>
  </main>
  <dialog id="offer-detail"></dialog>
  {{if .CanCreate}}
  <dialog id="offer-create">
    <form id="create-form">
      <h2>New offer</h2>
      <label>Name <input type="text" name="name" required></label>
      <label>Position <input type="text" name="position" required></label>
      <label>Salary <input type="text" name="salary" required></label>
      <label>Candidate first name <input type="text" name="candidateFirstName" required></label>
      <label>Candidate last name <input type="text" name="candidateLastName"></label>
      <label>Candidate email <input type="email" name="candidateEmail" required></label>
      <div class="form-errors" hidden></div>
      <div class="detail-actions">
        <button type="submit">Create</button>
        <button type="button" class="detail-close">Cancel</button>
      </div>
    </form>
  </dialog>
  {{end}}
  <footer>offerdeck {{.Version}}</footer>
  <script src="/static/app.js"></script>
</body>
</html>
{{end}}`
