package mcp

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/VickyDev810/PlexiPDF/internal/config"
	"github.com/VickyDev810/PlexiPDF/internal/document"
)

// Server exposes the PDF editing operations over MCP stdio so the editor can
// be driven headlessly. Every tool call is stateless: it opens the document,
// applies the operation, and writes the result back out.
type Server struct {
	config    *config.Config
	validator *document.Validator
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server wired to the editing tools.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.AppName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		validator: document.NewValidator(cfg.MaxFileSize),
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pdfInfoTool := mcp.NewTool(
		"pdf_info",
		mcp.WithDescription("Get page count, page sizes and form field count for a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfInfoTool, s.handlePDFInfo)

	pdfFormFieldsTool := mcp.NewTool(
		"pdf_form_fields",
		mcp.WithDescription("List the interactive form fields of a PDF file with their current values"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfFormFieldsTool, s.handlePDFFormFields)

	pdfSetFieldTool := mcp.NewTool(
		"pdf_set_field",
		mcp.WithDescription("Set the value of a form field and save the PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("Fully qualified name of the form field"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("New value for the field"),
		),
		mcp.WithString("output",
			mcp.Description("Path to save the modified PDF to (defaults to overwriting the input)"),
		),
	)
	s.mcpServer.AddTool(pdfSetFieldTool, s.handlePDFSetField)

	pdfAddTextTool := mcp.NewTool(
		"pdf_add_text",
		mcp.WithDescription("Overlay free-form text onto a page and save the PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithNumber("page",
			mcp.Required(),
			mcp.Description("Page number, starting at 1"),
		),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("Horizontal position in PDF points, from the left edge"),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("Vertical position in PDF points, from the bottom edge"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to place on the page"),
		),
		mcp.WithNumber("font_size",
			mcp.Description("Font size in points (default 12)"),
		),
		mcp.WithString("output",
			mcp.Description("Path to save the modified PDF to (defaults to overwriting the input)"),
		),
	)
	s.mcpServer.AddTool(pdfAddTextTool, s.handlePDFAddText)

	pdfRenderPageTool := mcp.NewTool(
		"pdf_render_page",
		mcp.WithDescription("Render a page of a PDF file to a PNG image"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithNumber("page",
			mcp.Required(),
			mcp.Description("Page number, starting at 1"),
		),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Path to write the PNG image to"),
		),
		mcp.WithNumber("dpi",
			mcp.Description("Render resolution in dots per inch (default from configuration)"),
		),
	)
	s.mcpServer.AddTool(pdfRenderPageTool, s.handlePDFRenderPage)

	pdfExtractTextTool := mcp.NewTool(
		"pdf_extract_text",
		mcp.WithDescription("Extract the text content of a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfExtractTextTool, s.handlePDFExtractText)

	pdfListDirectoryTool := mcp.NewTool(
		"pdf_list_directory",
		mcp.WithDescription("List the readable PDF files in a directory"),
		mcp.WithString("directory",
			mcp.Description("Directory to list (uses the configured default if empty)"),
		),
	)
	s.mcpServer.AddTool(pdfListDirectoryTool, s.handlePDFListDirectory)
}

// openDocument validates and opens the PDF at path.
func (s *Server) openDocument(path string) (*document.Document, error) {
	if err := s.validator.Validate(path); err != nil {
		return nil, err
	}
	return document.Open(path)
}

// pageArg reads a 1-based page number argument and converts it to the
// zero-based index the document layer uses.
func pageArg(args map[string]any) (int, error) {
	n, ok := args["page"].(float64)
	if !ok {
		return 0, fmt.Errorf("page is required and must be a number")
	}
	if n < 1 {
		return 0, fmt.Errorf("page must be 1 or greater, got %g", n)
	}
	return int(n) - 1, nil
}

// Handler functions
func (s *Server) handlePDFInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.openDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer doc.Close()

	fields, err := doc.FormFields()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", doc.Path())
	fmt.Fprintf(&b, "Pages: %d\n", doc.PageCount())
	fmt.Fprintf(&b, "Form fields: %d\n", len(fields))
	b.WriteString("\nPage sizes (points):\n")
	for i := 0; i < doc.PageCount(); i++ {
		w, h, err := doc.PageSize(i)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fmt.Fprintf(&b, "  %d: %.1f x %.1f\n", i+1, w, h)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handlePDFFormFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.openDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer doc.Close()

	fields, err := doc.FormFields()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(fields) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No form fields found in %s", path)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d form field(s) in %s\n\n", len(fields), path)
	for i, f := range fields {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.Name)
		fmt.Fprintf(&b, "   Type: %s\n", f.Type)
		fmt.Fprintf(&b, "   Value: %s\n", f.Value)
		fmt.Fprintf(&b, "   Page: %d\n", f.Page+1)
		if f.ReadOnly {
			b.WriteString("   Read-only: true\n")
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handlePDFSetField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := request.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	output := path
	if out, ok := args["output"].(string); ok && out != "" {
		output = out
	}

	doc, err := s.openDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer doc.Close()

	if err := doc.SetFieldValue(field, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := doc.Save(output); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Set field %q to %q, saved to %s", field, value, output)), nil
}

func (s *Server) handlePDFAddText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	page, err := pageArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	x, ok := args["x"].(float64)
	if !ok {
		return mcp.NewToolResultError("x is required and must be a number"), nil
	}
	y, ok := args["y"].(float64)
	if !ok {
		return mcp.NewToolResultError("y is required and must be a number"), nil
	}

	fontSize := s.config.FontSize
	if fs, ok := args["font_size"].(float64); ok && fs > 0 {
		fontSize = fs
	}

	output := path
	if out, ok := args["output"].(string); ok && out != "" {
		output = out
	}

	doc, err := s.openDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer doc.Close()

	if err := doc.InsertText(page, x, y, text, fontSize); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := doc.Save(output); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Added text on page %d at (%.1f, %.1f), saved to %s", page+1, x, y, output)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFRenderPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	page, err := pageArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dpi := s.config.RenderDPI
	if d, ok := args["dpi"].(float64); ok && d > 0 {
		dpi = d
	}

	doc, err := s.openDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer doc.Close()

	img, err := doc.RenderPage(page, dpi)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := os.Create(output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bounds := img.Bounds()
	responseText := fmt.Sprintf("Rendered page %d at %.0f DPI (%dx%d px) to %s",
		page+1, dpi, bounds.Dx(), bounds.Dy(), output)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.validator.Validate(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := document.ExtractText(path, int(s.config.MaxFileSize))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Text content of %s:\n\n%s", path, text)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFListDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	files, err := s.validator.ScanDirectory(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", directory)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d PDF file(s) in directory: %s\n\n", len(files), directory)
	for i, file := range files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&b, "   Modified: %s\n", file.Modified.Format("2006-01-02 15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// Run starts the MCP server on stdio and blocks until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting %s MCP server in stdio mode", s.config.AppName)
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
