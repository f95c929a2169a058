package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/colorpad/internal/annotation"
	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/export"
	"github.com/starford/colorpad/internal/mcpserver"
	"github.com/starford/colorpad/internal/palette"
	"github.com/starford/colorpad/internal/storage"
)

// RunMCP serves the MCP tools on stdin/stdout. Logs go to stderr.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := build(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, logCloser := newLogger(cfg.App, os.Stderr)
	defer logCloser.Close()
	slog.SetDefault(logger)

	ed, gw, err := openEditor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(logger, "storage", gw)
	defer ed.Close()
	defer func() {
		if err := ed.Flush(context.Background()); err != nil {
			logger.Error("Flush pending save failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("MCP server starting", slog.String("storage_driver", cfg.Storage.Driver))
	return mcpserver.New(ed, app.version).ServeStdio()
}

// ExportRequest selects what the export command writes.
type ExportRequest struct {
	Format    string
	Output    string
	Clipboard bool
}

// Export renders the stored document's citations. It reads the gateway
// directly and never writes the document.
func Export(ctx context.Context, req ExportRequest, opts ...Option) error {
	app, err := build(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return err
	}

	gw, err := storage.Open(cfg.Storage.Options())
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer gw.Close()

	set := annotation.CitationSet{}
	doc, err := gw.Get(ctx, cfg.Storage.Key)
	switch {
	case err == nil:
		body, perr := annotation.Parse(doc.Body)
		if perr != nil {
			return fmt.Errorf("parse body: %w", perr)
		}
		set = annotation.AllCitations(body, palette.New(doc.Colors).Colors())
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return fmt.Errorf("read document: %w", err)
	}

	out, err := export.String(set, format)
	if err != nil {
		return err
	}

	switch {
	case req.Clipboard:
		return export.ToClipboard(out)
	case req.Output != "":
		if err := os.WriteFile(req.Output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", req.Output, err)
		}
		return nil
	default:
		_, err := fmt.Fprint(app.stdout, out)
		return err
	}
}
