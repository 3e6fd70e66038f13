package pdf

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
)

var _ ports.Printer = (*ChromePrinter)(nil)

// EngineChrome nombre del motor.
const EngineChrome = "chrome"

const mmPerInch = 25.4

// paperInches tamaños de papel soportados (ancho, alto).
var paperInches = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"LETTER": {8.5, 11},
}

// ChromePrinter imprime la superficie HTML con Chromium headless: cada impresión abre
// una pestaña nueva, carga el markup, inyecta el estilo de impresión, espera Settle y
// llama a Page.printToPDF. La pestaña se cierra al terminar.
type ChromePrinter struct {
	opts Options
}

// NewChromePrinter construye el motor.
func NewChromePrinter(opts Options) *ChromePrinter {
	return &ChromePrinter{opts: opts.withDefaults()}
}

// Engine implementa ports.Printer.
func (p *ChromePrinter) Engine() string { return EngineChrome }

// Print renderiza surface.Markup y escribe el PDF resultante en w.
func (p *ChromePrinter) Print(ctx context.Context, surface *document.Surface, w io.Writer) error {
	if surface == nil || strings.TrimSpace(surface.Markup) == "" {
		return fmt.Errorf("pdf: superficie vacía")
	}
	markup := InjectPrintStyle(surface.Markup, PrintStyle(p.opts.PageSize, p.opts.MarginMM))

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if p.opts.ChromiumPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(p.opts.ChromiumPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	runCtx, cancelTimeout := context.WithTimeout(tabCtx, p.opts.Timeout)
	defer cancelTimeout()

	width, height := paperSize(p.opts.PageSize)
	margin := p.opts.MarginMM / mmPerInch

	var pdfBuf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(markup)),
		chromedp.Sleep(p.opts.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, perr := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			if perr == nil {
				pdfBuf = buf
			}
			return perr
		}),
	)
	if err != nil {
		return fmt.Errorf("pdf: chromedp: %w", err)
	}
	if _, err := w.Write(pdfBuf); err != nil {
		return fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return nil
}

// PrintStyle regla @page con tamaño y márgenes, y ajuste exacto de colores para que
// los fondos de la tabla se impriman.
func PrintStyle(pageSize string, marginMM float64) string {
	size := strings.TrimSpace(pageSize)
	if size == "" {
		size = "A4"
	}
	return "<style>@page{size:" + size + ";margin:" + strconv.FormatFloat(marginMM, 'f', -1, 64) + "mm}" +
		" *{-webkit-print-color-adjust:exact;print-color-adjust:exact}</style>"
}

// InjectPrintStyle inserta style antes de </head>. Si el markup no tiene head lo
// antepone al documento.
func InjectPrintStyle(markup, style string) string {
	idx := strings.Index(strings.ToLower(markup), "</head>")
	if idx < 0 {
		return style + markup
	}
	return markup[:idx] + style + markup[idx:]
}

func paperSize(name string) (float64, float64) {
	if s, ok := paperInches[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return s[0], s[1]
	}
	a4 := paperInches["A4"]
	return a4[0], a4[1]
}
