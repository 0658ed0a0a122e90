// Package testpdf assembles small, well-formed PDF files for tests. Fixtures
// are generated at runtime so cross-reference offsets are always computed,
// never hand-maintained.
package testpdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Field describes a merged text-field widget placed on a page.
type Field struct {
	Name  string
	Value string
	Rect  [4]float64 // llx, lly, urx, ury in PDF points
}

// Page describes one fixture page: a line of body text plus optional form
// fields. Pages are US Letter (612x792 points).
type Page struct {
	Text   string
	Fields []Field
}

const (
	pageWidth  = 612
	pageHeight = 792
)

// PDF serializes the given pages into a complete single-xref PDF document.
func PDF(pages ...Page) []byte {
	if len(pages) == 0 {
		pages = []Page{{Text: "Hello"}}
	}

	// Object numbering: 1 catalog, 2 page tree, 3 font, then an
	// alternating page/content pair per page, then widgets, then the
	// AcroForm dictionary if any page has fields.
	numPages := len(pages)
	pageObj := func(i int) int { return 4 + 2*i }
	contentObj := func(i int) int { return 5 + 2*i }

	widgetObjs := make([][]int, numPages)
	next := 4 + 2*numPages
	var allWidgets []int
	for i, p := range pages {
		for range p.Fields {
			widgetObjs[i] = append(widgetObjs[i], next)
			allWidgets = append(allWidgets, next)
			next++
		}
	}
	acroFormObj := 0
	if len(allWidgets) > 0 {
		acroFormObj = next
	}

	objects := map[int]string{}

	catalog := "<< /Type /Catalog /Pages 2 0 R"
	if acroFormObj != 0 {
		catalog += fmt.Sprintf(" /AcroForm %d 0 R", acroFormObj)
	}
	catalog += " >>"
	objects[1] = catalog

	kids := make([]string, numPages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObj(i))
	}
	objects[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), numPages)

	objects[3] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"

	for i, p := range pages {
		content := fmt.Sprintf("BT /Helv 12 Tf 72 720 Td (%s) Tj ET", escape(p.Text))
		objects[contentObj(i)] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream",
			len(content), content)

		page := fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] "+
				"/Resources << /Font << /Helv 3 0 R >> >> /Contents %d 0 R",
			pageWidth, pageHeight, contentObj(i))
		if len(widgetObjs[i]) > 0 {
			refs := make([]string, len(widgetObjs[i]))
			for j, nr := range widgetObjs[i] {
				refs[j] = fmt.Sprintf("%d 0 R", nr)
			}
			page += fmt.Sprintf(" /Annots [%s]", strings.Join(refs, " "))
		}
		page += " >>"
		objects[pageObj(i)] = page

		for j, f := range p.Fields {
			rect := f.Rect
			if rect == ([4]float64{}) {
				rect = [4]float64{72, 600 - float64(j)*40, 300, 625 - float64(j)*40}
			}
			objects[widgetObjs[i][j]] = fmt.Sprintf(
				"<< /Type /Annot /Subtype /Widget /FT /Tx /T (%s) /V (%s) "+
					"/Rect [%.1f %.1f %.1f %.1f] /F 4 /DA (/Helv 12 Tf 0 g) /P %d 0 R >>",
				escape(f.Name), escape(f.Value),
				rect[0], rect[1], rect[2], rect[3], pageObj(i))
		}
	}

	if acroFormObj != 0 {
		refs := make([]string, len(allWidgets))
		for i, nr := range allWidgets {
			refs[i] = fmt.Sprintf("%d 0 R", nr)
		}
		objects[acroFormObj] = fmt.Sprintf(
			"<< /Fields [%s] /DA (/Helv 0 Tf 0 g) "+
				"/DR << /Font << /Helv 3 0 R >> >> /NeedAppearances true >>",
			strings.Join(refs, " "))
	}

	return serialize(objects)
}

// serialize writes objects in numeric order and appends a correct xref table.
func serialize(objects map[int]string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	maxObj := 0
	for nr := range objects {
		if nr > maxObj {
			maxObj = nr
		}
	}

	offsets := make([]int, maxObj+1)
	for nr := 1; nr <= maxObj; nr++ {
		body, ok := objects[nr]
		if !ok {
			continue
		}
		offsets[nr] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", nr, body)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObj+1)
	buf.WriteString("0000000000 65535 f \n")
	for nr := 1; nr <= maxObj; nr++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[nr])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		maxObj+1, xrefStart)

	return buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// WriteFile writes a fixture PDF into dir and returns its path.
func WriteFile(t *testing.T, dir, name string, pages ...Page) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDF(pages...), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}
