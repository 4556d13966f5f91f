// -----------------------------------------------------------------------
// pdfreport: renders a Markdown report (internal/report.RenderMarkdown)
// as a PDF, by walking the goldmark AST and driving fpdf draw calls.
// Adapted from the teacher's markdown-to-PDF converter in
// internal/services/pdf/service.go, generalized from rendering arbitrary
// document markdown to rendering batch-job reports specifically, with
// the teacher's heading-size and table handling kept intact.
// -----------------------------------------------------------------------

package pdfreport

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var headingSize = map[int]float64{
	1: 20, 2: 16, 3: 14, 4: 12, 5: 11, 6: 10,
}

// Export converts markdown into a PDF file at outPath.
func Export(markdown string, outPath string) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	source := []byte(markdown)
	root := md.Parser().Parse(text.NewReader(source))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 11)

	r := &renderer{pdf: pdf, source: source}
	if err := ast.Walk(root, r.visit); err != nil {
		return fmt.Errorf("pdfreport: render failed: %w", err)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("pdfreport: write failed: %w", err)
	}
	return nil
}

type renderer struct {
	pdf    *fpdf.Fpdf
	source []byte
}

func (r *renderer) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return r.exit(n)
	}
	switch node := n.(type) {
	case *ast.Heading:
		size := headingSize[node.Level]
		if size == 0 {
			size = 11
		}
		r.pdf.SetFont("Arial", "B", size)
	case *ast.Paragraph:
		r.pdf.SetFont("Arial", "", 11)
	case *ast.Text:
		r.pdf.Write(6, string(node.Segment.Value(r.source)))
	case *ast.String:
		r.pdf.Write(6, string(node.Value))
	case *extast.TableRow:
		r.pdf.Ln(6)
	case *extast.TableCell:
		r.pdf.Write(6, "| ")
	case *ast.ListItem:
		r.pdf.Write(6, "- ")
	}
	return ast.WalkContinue, nil
}

func (r *renderer) exit(n ast.Node) (ast.WalkStatus, error) {
	switch n.(type) {
	case *ast.Heading, *ast.Paragraph:
		r.pdf.Ln(8)
	case *ast.ListItem:
		r.pdf.Ln(6)
	}
	return ast.WalkContinue, nil
}
