package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"estate-mail-scraper/models"
)

// Page renders the ranked listing set into a static HTML dashboard that can
// be served straight from a docs/ folder.
type Page struct {
	path string
	tmpl *template.Template
}

func NewPage(path string) *Page {
	return &Page{
		path: path,
		tmpl: template.Must(template.New("page").Funcs(template.FuncMap{
			"euro": func(f float64) string {
				return fmt.Sprintf("€%.0f", f)
			},
			"pct": func(f float64) string {
				return fmt.Sprintf("%.0f", f*100)
			},
			"day": func(t time.Time) string {
				return t.Format("2006-01-02")
			},
		}).Parse(pageTemplate)),
	}
}

type pageData struct {
	GeneratedAt time.Time
	Top         []*models.Listing
	All         []*models.Listing
}

// Write renders the page for the given ranked set and writes it to disk.
func (p *Page) Write(listings []*models.Listing, generatedAt time.Time) error {
	top := listings
	if len(top) > 5 {
		top = top[:5]
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, pageData{
		GeneratedAt: generatedAt,
		Top:         top,
		All:         listings,
	}); err != nil {
		return fmt.Errorf("render: execute template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("render: create output dir: %w", err)
	}
	if err := os.WriteFile(p.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("render: write %q: %w", p.path, err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Listings</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    body { font-family: Arial, sans-serif; margin: 20px; background: #f9f9f9; }
    h1 { text-align: center; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th, td { padding: 10px; border: 1px solid #ccc; text-align: center; }
    th { background-color: #f0f0f0; }
    a { color: #0077cc; text-decoration: none; }
    a:hover { text-decoration: underline; }
    .highlight { background-color: #d7ffd7; }
  </style>
</head>
<body>

  <h1>🏠 Listings</h1>
  <div style="text-align:center; margin-bottom:20px;">
    <strong>Updated:</strong> {{.GeneratedAt.Format "2006-01-02 15:04"}}
  </div>

  <h2>🥇 Top 5 Deals</h2>
  <table>
    <thead>
      <tr><th>Name</th><th>Price</th><th>m²</th><th>€/m²</th><th>Score</th><th>Link</th></tr>
    </thead>
    <tbody>
      {{range .Top}}
      <tr class="highlight">
        <td>{{.Name}}</td>
        <td>{{euro .Price}}</td>
        <td>{{.Area}}</td>
        <td>{{euro .PricePerArea}}</td>
        <td>{{pct .Score}}</td>
        <td><a href="{{.Link}}" target="_blank">View</a></td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <h2>📋 All Listings</h2>
  <table>
    <thead>
      <tr><th>Name</th><th>Price</th><th>m²</th><th>€/m²</th><th>Location</th><th>Received</th><th>Score</th><th>Link</th></tr>
    </thead>
    <tbody>
      {{range .All}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{euro .Price}}</td>
        <td>{{.Area}}</td>
        <td>{{euro .PricePerArea}}</td>
        <td>{{.Location}}</td>
        <td>{{day .ReceivedAt}}</td>
        <td>{{pct .Score}}</td>
        <td><a href="{{.Link}}" target="_blank">View</a></td>
      </tr>
      {{end}}
    </tbody>
  </table>

</body>
</html>
`
