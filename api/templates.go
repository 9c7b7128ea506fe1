/*
templates.go - Server-rendered pages for the web UI

PURPOSE:
  Three pages cover the whole flow: splash (create a receipt), split
  (edit items), view (the split table). Pages are plain forms posting
  back to the server; no client-side framework.

STYLING:
  Bulma via CDN. Class names follow the usual hero/section/button
  conventions so the pages look reasonable without custom CSS.

SEE ALSO:
  - handlers.go: Builds the view structs these templates render
*/
package api

import "html/template"

// =============================================================================
// VIEW MODELS
// =============================================================================

type splashView struct {
	Error       string
	PeopleValue string // prefill for the people input, from a recent group
	Groups      []groupView
}

type groupView struct {
	Names  []string
	People string // comma-joined, used in the prefill link
}

type splitView struct {
	ID             string
	BalanceAmount  string
	BalanceClass   string
	BalanceCaption string
	Participants   []string
	Items          []itemView
	CanShow        bool
	Error          string
}

type itemView struct {
	Index        int
	Name         string
	Value        string // empty when zero so the placeholder shows
	SharedBy     map[string]bool
	Proportional bool
}

type tableView struct {
	ID     string
	Header []string
	Rows   []tableRow
	Error  string
}

type tableRow struct {
	Label string
	Cells []string
}

// =============================================================================
// PAGES
// =============================================================================

const pageChrome = `
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bulma@1.0.2/css/bulma.min.css">
<meta name="viewport" content="width=device-width, initial-scale=1">`

const pageFooter = `
<footer class="hero is-small is-primary">
  <div class="hero-body has-text-centered">
    <p class="subtitle is-size-7">billsplit</p>
  </div>
</footer>`

var splashTmpl = template.Must(template.New("splash").Parse(`<!DOCTYPE html>
<html>
<head><title>Billsplit | Create</title>` + pageChrome + `</head>
<body>
<header class="hero is-small is-primary">
  <div class="hero-body has-text-centered">
    <p class="title">Billsplit</p>
    <p class="subtitle is-size-6">A utility to determine who owes what</p>
  </div>
</header>
<div class="section is-small">
  {{if .Error}}<div class="notification is-danger">{{.Error}}</div>{{end}}
  <form method="post" action="/receipts">
    <div class="container is-fluid">
      <input class="input is-primary" type="number" step="0.01" min="0.01" name="value"
             inputmode="decimal" required placeholder="Enter receipt total">
    </div>
    <hr>
    <div class="container is-fluid">
      <input class="input is-primary" type="text" name="people" value="{{.PeopleValue}}"
             required placeholder="Enter names, comma-separated">
    </div>
    <div class="container is-fluid mt-4">
      <button class="button is-success is-dark is-large is-fullwidth" type="submit">Submit</button>
    </div>
  </form>
  {{if .Groups}}
  <hr>
  <div class="panel-heading">Or pick from recently used groups:</div>
  {{range .Groups}}
  <div class="columns">
    <div class="column">
      <div class="buttons">
        {{range .Names}}<button class="button is-link" disabled>{{.}}</button>{{end}}
      </div>
    </div>
    <div class="column is-2 is-narrow">
      <a class="button is-primary" href="/?people={{.People}}">Select this group</a>
    </div>
  </div>
  {{end}}
  {{end}}
</div>` + pageFooter + `
</body>
</html>`))

var splitTmpl = template.Must(template.New("split").Parse(`<!DOCTYPE html>
<html>
<head><title>Billsplit | Split</title>` + pageChrome + `</head>
<body>
<header class="hero is-small is-primary">
  <div class="hero-body has-text-centered">
    <p class="title {{.BalanceClass}} is-size-4">{{.BalanceAmount}}</p>
    <p class="subtitle is-size-6">{{.BalanceCaption}}</p>
  </div>
</header>
<div class="section">
  {{if .Error}}<div class="notification is-danger">{{.Error}}</div>{{end}}
  <div class="container is-fluid">
    {{range $item := .Items}}
    <form method="post" action="/receipts/{{$.ID}}/items/{{$item.Index}}">
      <div class="columns is-mobile">
        <div class="column is-two-thirds">
          <input class="input is-primary" type="text" name="name" value="{{$item.Name}}" placeholder="item name">
        </div>
        <div class="column is-one-third">
          <input class="input is-primary" type="number" step="0.01" min="0.00" name="value"
                 inputmode="decimal" value="{{$item.Value}}" placeholder="amount">
        </div>
      </div>
      <div class="buttons">
        {{range $person := $.Participants}}
        <label class="button {{if index $item.SharedBy $person}}is-primary is-dark{{else}}is-primary is-outlined{{end}}">
          <input type="checkbox" name="shared" value="{{$person}}" {{if index $item.SharedBy $person}}checked{{end}}>
          <span class="ml-1">{{$person}}</span>
        </label>
        {{end}}
        <label class="button is-warning {{if $item.Proportional}}is-dark{{else}}is-outlined{{end}}">
          <input type="checkbox" name="proportional" {{if $item.Proportional}}checked{{end}}>
          <span class="ml-1">proportional</span>
        </label>
      </div>
      <button class="button is-primary is-small" type="submit">Update</button>
    </form>
    <form method="post" action="/receipts/{{$.ID}}/items/{{$item.Index}}/delete">
      <button class="button is-danger is-small mt-1" type="submit">Remove</button>
    </form>
    <hr>
    {{end}}
  </div>
  <div class="is-flex is-justify-content-center">
    <div class="buttons">
      <form method="post" action="/receipts/{{.ID}}/items">
        <button class="button is-primary is-dark" type="submit">Add Item</button>
      </form>
      {{if .CanShow}}
      <a class="button is-link is-dark ml-2" href="/receipts/{{.ID}}/table">Show Splits</a>
      {{end}}
    </div>
  </div>
</div>` + pageFooter + `
</body>
</html>`))

var tableTmpl = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html>
<head><title>Billsplit | View</title>` + pageChrome + `</head>
<body>
<header class="hero is-small is-primary">
  <div class="hero-body has-text-centered">
    <p class="title">Here's your split!</p>
    <p class="subtitle is-size-6">Balance leftover is distributed proportionally.</p>
  </div>
</header>
{{if .Error}}
<div class="section">
  <div class="notification is-danger">{{.Error}}</div>
  <a class="button is-primary" href="/receipts/{{.ID}}">Back to the split</a>
</div>
{{else}}
<div class="is-flex is-justify-content-center">
  <div class="table-container">
    <table class="table">
      <thead>
        <tr>{{range .Header}}<th scope="col">{{.}}</th>{{end}}</tr>
      </thead>
      <tbody>
        {{range .Rows}}
        <tr>
          <th scope="row">{{.Label}}</th>
          {{range .Cells}}<td>{{.}}</td>{{end}}
        </tr>
        {{end}}
      </tbody>
    </table>
  </div>
</div>
{{end}}` + pageFooter + `
</body>
</html>`))
