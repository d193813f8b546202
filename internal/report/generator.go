package report

import (
	"fmt"
	"os"

	"github.com/pjbriggs/arqivr/internal/config"
	"go.uber.org/zap"
)

// Generator renders engine results in the configured output format
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	switch cfg.ReportFormat {
	case "", "text", "txt", "json":
	default:
		return nil, fmt.Errorf("unknown report format: %s", cfg.ReportFormat)
	}

	return &Generator{
		config: cfg,
		logger: logger,
	}, nil
}

func (g *Generator) jsonFormat() bool {
	return g.config.ReportFormat == "json"
}

// write sends the rendered report to the configured output file, or to
// stdout when none is set.
func (g *Generator) write(data []byte) error {
	if g.config.OutputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	g.logger.Info("Writing report",
		zap.String("format", g.config.ReportFormat),
		zap.String("output", g.config.OutputFile))

	return os.WriteFile(g.config.OutputFile, data, 0644)
}
