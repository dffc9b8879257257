// Package export turns paginated resumes into PDF files.
package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/gabriel-vasile/mimetype"
	pool "github.com/jolestar/go-commons-pool/v2"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/types"
)

// pxPerInch converts layout units (CSS px) to PDF paper inches.
const pxPerInch = 96.0

// Options configures an Exporter.
type Options struct {
	// Timeout bounds a single export, including waiting for a free tab.
	Timeout time.Duration
	// PoolSize is the number of browser tabs kept open.
	PoolSize int
	Verbose  bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Timeout: 30 * time.Second, PoolSize: 2}
}

// Exporter prints HTML to PDF in a shared headless browser. Tabs are pooled
// and reused across exports. Exporter is safe for concurrent use.
type Exporter struct {
	opts          Options
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	tabs          *pool.ObjectPool
}

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewExporter starts the headless browser. Requires Chrome/Chromium to be
// installed on the system.
func NewExporter(ctx context.Context, opts Options) (*Exporter, error) {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.PoolSize < 1 {
		opts.PoolSize = def.PoolSize
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx),
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	startCtx, cancel := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &Error{Message: "failed to start browser", Cause: err}
	}

	e := &Exporter{
		opts:          opts,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}

	factory := pool.NewPooledObjectFactory(
		e.openTab,
		func(_ context.Context, obj *pool.PooledObject) error {
			obj.Object.(*tab).cancel()
			return nil
		},
		func(_ context.Context, obj *pool.PooledObject) bool {
			return obj.Object.(*tab).ctx.Err() == nil
		},
		nil,
		nil,
	)
	cfg := pool.NewDefaultPoolConfig()
	cfg.MaxTotal = opts.PoolSize
	cfg.MaxIdle = opts.PoolSize
	cfg.TestOnBorrow = true
	e.tabs = pool.NewObjectPool(ctx, factory, cfg)

	if opts.Verbose {
		log.Printf("[export] Browser started with %d tabs", opts.PoolSize)
	}
	return e, nil
}

func (e *Exporter) openTab(_ context.Context) (interface{}, error) {
	ctx, cancel := chromedp.NewContext(e.browserCtx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	return &tab{ctx: ctx, cancel: cancel}, nil
}

// PDF prints html to PDF with zero margins and a paper size equal to the
// layout page size, so each rendered page becomes one PDF page.
func (e *Exporter) PDF(ctx context.Context, html string, opts layout.Options) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	obj, err := e.tabs.BorrowObject(ctx)
	if err != nil {
		return nil, &Error{Message: "no browser tab available", Cause: err}
	}
	t := obj.(*tab)

	runCtx, runCancel := context.WithTimeout(t.ctx, e.opts.Timeout)
	stop := context.AfterFunc(ctx, runCancel)
	defer func() {
		stop()
		runCancel()
	}()

	geo := layout.NewGeometry(types.DefaultDesign(), opts)
	var buf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(geo.PageWidth / pxPerInch).
				WithPaperHeight(geo.PageHeight / pxPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		// The tab may be mid-navigation; do not hand it to the next export.
		_ = e.tabs.InvalidateObject(context.WithoutCancel(ctx), obj)
		return nil, &Error{Message: "failed to print PDF", Cause: err}
	}
	if err := e.tabs.ReturnObject(context.WithoutCancel(ctx), obj); err != nil {
		log.Printf("[export] failed to return tab to pool: %v", err)
	}

	if mt := mimetype.Detect(buf); !mt.Is("application/pdf") {
		return nil, &Error{Message: fmt.Sprintf("browser returned %s, expected application/pdf", mt.String())}
	}

	if e.opts.Verbose {
		log.Printf("[export] Printed PDF: %d bytes", len(buf))
	}
	return buf, nil
}

// ExportDocument renders doc to HTML, checks the page count against pages
// and prints it to PDF.
func (e *Exporter) ExportDocument(ctx context.Context, doc *types.ResumeDocument, pages []types.PageContent, opts layout.Options) ([]byte, error) {
	html, err := rendering.RenderHTML(doc, pages, opts)
	if err != nil {
		return nil, &Error{Message: "failed to render HTML", Cause: err}
	}
	if err := CheckPages(html, len(pages)); err != nil {
		return nil, err
	}
	return e.PDF(ctx, html, opts)
}

// Close destroys pooled tabs and shuts the browser down.
func (e *Exporter) Close(ctx context.Context) {
	e.tabs.Close(ctx)
	e.browserCancel()
	e.allocCancel()
}
