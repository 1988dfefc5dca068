package export

import "html/template"

var documentTemplate = template.Must(template.New("export").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}} - PDF</title>
    <style>
      :root { --ink: #0b0f0d; --muted: #55605a; --line: #d8ddd7; --brand: #0f3d2e; }
      * { box-sizing: border-box; }
      body { margin: 0; font-family: "Space Grotesk", "IBM Plex Sans", "Helvetica Neue", sans-serif; color: var(--ink); background: #fff; }
      .page { padding: 24px 6px 6px; width: 100%; }
      .header { display: grid; grid-template-columns: auto 1fr; gap: 16px; align-items: center; border-bottom: 2px solid var(--line); padding-bottom: 12px; }
      .logo { width: 100px; height: auto; object-fit: contain; }
      .title { display: grid; gap: 6px; }
      .title h1 { margin: 0; font-size: 24px; }
      .meta { font-size: 12px; color: var(--muted); }
      .summary { font-size: 16px; display: flex; gap: 12px; margin-top: 12px; }
      .summary-card { border: 1px solid var(--line); padding: 6px 10px; }
      .summary-card span { display: block; font-size: 10px; color: var(--muted); }
      table { width: 100%; border-collapse: collapse; margin-top: 20px; font-size: 9px; table-layout: fixed; }
      th, td { border: 1px solid var(--line); padding: 4px 5px; text-align: left; word-break: break-word; }
      th { font-size: 8px; letter-spacing: 0.02em; background: #eef2ee; font-weight: 600; }
      tr:nth-child(even) td { background: #fafbf8; }
      .index { width: 28px; text-align: center; font-weight: 600; background: #f4f6f2; }
      .total-row td { font-weight: 700; background: #f4f8f2; }
      .note { margin-top: 16px; font-size: 10px; color: var(--muted); }
      @page { size: A4; margin: 18mm 6mm 6mm 6mm; }
      @media print { .page { padding: 0; } }
    </style>
  </head>
  <body>
    <div class="page">
      <div class="header">
        {{if .LogoURL}}<img class="logo" id="pdf-logo" src="{{.LogoURL}}" alt="{{.Brand}}" />{{else}}<div></div>{{end}}
        <div class="title">
          <h1>{{.Title}}</h1>
          <div class="meta">Order ID: {{.Slug}}</div>
          <div class="meta">Generated: {{.Generated}}</div>
        </div>
      </div>
      <div class="summary">
        {{range .Summary}}<div class="summary-card"><span>{{.Label}}</span><strong>{{.Value}}</strong></div>
        {{end}}
      </div>
      <table>
        <thead>
          <tr><th>#</th>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
        </thead>
        <tbody>
          {{range .Rows}}<tr><td class="index">{{.Index}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
          {{end}}
        </tbody>
        <tfoot>
          <tr class="total-row"><td>TOTAL</td>{{range .Footer}}<td>{{.}}</td>{{end}}</tr>
        </tfoot>
      </table>
      <div class="note">Values reflect current order data</div>
    </div>
    {{if .AutoPrint}}<script>
      window.addEventListener("load", function () {
        var ready = document.fonts ? document.fonts.ready : Promise.resolve();
        ready.then(function () {
          setTimeout(function () {
            window.onafterprint = function () { window.close(); };
            window.focus();
            window.print();
          }, 100);
        });
      });
    </script>{{end}}
  </body>
</html>
`))
