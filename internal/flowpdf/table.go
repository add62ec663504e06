package flowpdf

import (
	"errors"

	"github.com/PuerkitoBio/goquery"
)

var errEmptyTable = errors.New("table has no cells")

type gridTable struct {
	headers []string
	rows    [][]string
}

func (t gridTable) columns() int {
	n := len(t.headers)
	for _, r := range t.rows {
		n = max(n, len(r))
	}
	return n
}

func parseTable(table *goquery.Selection) (gridTable, error) {
	var t gridTable
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		t.headers = append(t.headers, squash(th.Text()))
	})
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, squash(td.Text()))
		})
		t.rows = append(t.rows, row)
	})
	if t.columns() == 0 {
		return t, errEmptyTable
	}
	return t, nil
}

// table draws a grid with a palette-colored header row and zebra body rows.
// The header is repeated after a page break.
func (w *writer) table(sel *goquery.Selection) {
	t, err := parseTable(sel)
	if err != nil {
		panic(err) // contained by safely; the element is skipped
	}

	cols := t.columns()
	colW := w.contentWidth() / float64(cols)

	w.pdf.Ln(2)
	w.drawColor(gridColor)
	w.pdf.SetLineWidth(0.2)

	header := func() {
		if len(t.headers) == 0 {
			return
		}
		w.pdf.SetFont("Helvetica", "B", 9)
		w.row(t.headers, cols, colW, TableHeaderStyle(w.colors))
	}

	header()
	w.pdf.SetFont("Helvetica", "", 9)
	for i, r := range t.rows {
		if w.needsBreak(w.rowHeight(r, colW)) {
			w.pdf.AddPage()
			header()
			w.pdf.SetFont("Helvetica", "", 9)
		}
		w.row(r, cols, colW, TableRowStyle(w.colors, i))
	}
	w.pdf.Ln(4)
}

func (w *writer) rowHeight(cells []string, colW float64) float64 {
	lines := 1
	for _, c := range cells {
		lines = max(lines, len(w.pdf.SplitLines([]byte(w.tr(c)), colW-2*cellPadX)))
	}
	return float64(lines)*tableLineH + 2*cellPadY
}

func (w *writer) needsBreak(h float64) bool {
	_, pageH := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()
	return w.pdf.GetY()+h > pageH-bottom
}

func (w *writer) row(cells []string, cols int, colW float64, style CellStyle) {
	h := w.rowHeight(cells, colW)
	if w.needsBreak(h) {
		w.pdf.AddPage()
	}

	left, _, _, _ := w.pdf.GetMargins()
	y := w.pdf.GetY()
	w.fillColor(style.Fill)
	w.textColor(style.Text)
	for c := 0; c < cols; c++ {
		x := left + float64(c)*colW
		w.pdf.Rect(x, y, colW, h, "FD")
		if c < len(cells) {
			w.pdf.SetXY(x+cellPadX, y+cellPadY)
			w.pdf.MultiCell(colW-2*cellPadX, tableLineH, w.tr(cells[c]), "", "L", false)
		}
	}
	w.pdf.SetXY(left, y+h)
}
