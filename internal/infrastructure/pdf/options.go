package pdf

import (
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// Options parámetros de página y de ejecución comunes a los motores.
type Options struct {
	Engine       string        // chrome | maroto
	ChromiumPath string        // "" = buscar en el PATH
	PageSize     string        // A4 | Letter
	MarginMM     float64
	Settle       time.Duration // espera antes de imprimir (chrome)
	Timeout      time.Duration
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.PageSize) == "" {
		o.PageSize = "A4"
	}
	if o.MarginMM <= 0 {
		o.MarginMM = 10
	}
	if o.Settle < 0 {
		o.Settle = 0
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	return o
}

var chromeBinaries = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell", "chrome",
}

// ChromeAvailable indica si hay un Chromium utilizable en path o en el PATH.
func ChromeAvailable(path string) bool {
	if path = strings.TrimSpace(path); path != "" {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	}
	for _, name := range chromeBinaries {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// NewPrinter elige el motor según opts.Engine. Si se pide chrome y no hay navegador
// disponible se usa maroto y se avisa en el log.
func NewPrinter(opts Options, log *logger.Logger) ports.Printer {
	l := log.Component("pdf")
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case EngineMaroto:
		l.Info().Str("engine", EngineMaroto).Msg("motor PDF seleccionado")
		return NewMarotoPrinter(opts)
	default:
		if !ChromeAvailable(opts.ChromiumPath) {
			l.Warn().Str("chromium_path", opts.ChromiumPath).Msg("Chromium no disponible; se usa maroto")
			return NewMarotoPrinter(opts)
		}
		l.Info().Str("engine", EngineChrome).Msg("motor PDF seleccionado")
		return NewChromePrinter(opts)
	}
}
