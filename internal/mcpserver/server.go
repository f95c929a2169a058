// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes colorpad citation tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/colorpad/internal/annotation"
	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/document"
	"github.com/starford/colorpad/internal/export"
	"github.com/starford/colorpad/internal/models"
)

const contractURI = "colorpad://markup-format"

// Server wraps the MCP server with colorpad tools.
type Server struct {
	mcp *server.MCPServer
	ed  *document.Editor
}

// New creates a new MCP server with all colorpad tools registered.
func New(ed *document.Editor, version string) *Server {
	s := &Server{ed: ed}

	s.mcp = server.NewMCPServer(
		"colorpad",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_colors",
		mcp.WithDescription("List the highlight palette, most recently used first."),
	), s.listColors)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the document body as plain text (for computing ranges) or as markup."),
		mcp.WithString("format", mcp.Description("text (default) or markup"), mcp.Enum("text", "markup")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("get_citations",
		mcp.WithDescription("List the highlighted runs of one color in document order."),
		mcp.WithNumber("color_id", mcp.Required(), mcp.Description("Palette color id")),
	), s.getCitations)

	s.mcp.AddTool(mcp.NewTool("copy_all_highlights",
		mcp.WithDescription("Export every color's citations keyed by color name."),
		mcp.WithString("format", mcp.Description("json (default), markdown or html"), mcp.Enum("json", "markdown", "html")),
	), s.copyAllHighlights)

	s.mcp.AddTool(mcp.NewTool("highlight_range",
		mcp.WithDescription("Highlight a range of the plain text with a color. "+
			"Read the markup contract via the get_markup_contract tool or the "+contractURI+" resource first."),
		mcp.WithNumber("start", mcp.Required(), mcp.Description("Start offset in code points")),
		mcp.WithNumber("end", mcp.Required(), mcp.Description("End offset in code points, exclusive")),
		mcp.WithNumber("color_id", mcp.Required(), mcp.Description("Palette color id")),
		mcp.WithString("name", mcp.Description("Name, required for a new color")),
		mcp.WithString("value", mcp.Description("CSS color, required for a new color")),
	), s.highlightRange)

	s.mcp.AddTool(mcp.NewTool("rename_color",
		mcp.WithDescription("Rename a palette color. Citation exports use the new name."),
		mcp.WithNumber("color_id", mcp.Required(), mcp.Description("Palette color id")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New display name")),
	), s.renameColor)

	s.mcp.AddTool(mcp.NewTool("get_markup_contract",
		mcp.WithDescription("Returns the colorpad markup and range contract."),
	), s.getMarkupContract)

	// Resource: markup contract.
	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Markup Contract",
			mcp.WithResourceDescription("Body markup, range addressing and palette rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrUnknownColor):
		return mcp.NewToolResultError("unknown color: " + err.Error())
	case errors.Is(err, apperr.ErrInvalidRange):
		return mcp.NewToolResultError("invalid range: " + err.Error())
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func (s *Server) listColors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.ed.Document(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(doc.Colors), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "text")
	switch format {
	case "markup":
		doc, err := s.ed.Document(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(doc.Body), nil
	case "text":
		body, err := s.ed.Body(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(body.Text()), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s", format)), nil
	}
}

func (s *Server) getCitations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("color_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.ed.Citations(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(c), nil
}

func (s *Server) copyAllHighlights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := export.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	set, err := s.ed.CopyAllHighlights(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	out, err := export.String(set, format)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) highlightRange(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := req.RequireInt("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := req.RequireInt("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireInt("color_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	color := models.Color{
		ID:    id,
		Name:  req.GetString("name", ""),
		Value: req.GetString("value", ""),
	}

	r := annotation.Range{Start: start, End: end}
	if err := s.ed.ApplyHighlight(ctx, r, color); err != nil {
		return errorResult(err), nil
	}
	c, err := s.ed.Citations(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(c), nil
}

func (s *Server) renameColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("color_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.ed.RenameColor(ctx, id, name); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed: %d -> %s", id, name)), nil
}

func (s *Server) getMarkupContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MarkupContract), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     MarkupContract,
		},
	}, nil
}
