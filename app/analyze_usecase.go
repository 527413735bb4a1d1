package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/ludo-technologies/smellscan/internal/log"
)

// BatchRunner analyzes many documents at once
type BatchRunner interface {
	AnalyzeFiles(ctx context.Context, paths []string) (*domain.BatchResponse, error)
	AnalyzeRequests(ctx context.Context, reqs []domain.AnalysisRequest) (*domain.BatchResponse, error)
}

// AnalyzeConfig holds configuration for the analyze use case
type AnalyzeConfig struct {
	// Output options
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
	OutputPath   string

	// File options
	Collect CollectOptions
}

// DefaultAnalyzeConfig returns default configuration
func DefaultAnalyzeConfig() AnalyzeConfig {
	return AnalyzeConfig{
		OutputFormat: domain.OutputFormatText,
		Collect:      CollectOptions{Recursive: true, RespectGitignore: true},
	}
}

// AnalyzeUseCase resolves inputs, analyzes them and writes the reports
type AnalyzeUseCase struct {
	batch      BatchRunner
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
	stdin      io.Reader
}

// NewAnalyzeUseCase creates a new analyze use case reading "-" from os.Stdin
func NewAnalyzeUseCase(batch BatchRunner, formatter domain.OutputFormatter) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		batch:      batch,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
		stdin:      os.Stdin,
	}
}

// Execute analyzes the paths and writes the result. A lone "-" reads one document from stdin.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, cfg AnalyzeConfig, paths []string) (*domain.BatchResponse, error) {
	start := time.Now()

	response, err := uc.Analyze(ctx, cfg, paths)
	if err != nil {
		return nil, err
	}

	if err := uc.write(cfg, response, time.Since(start)); err != nil {
		return response, err
	}
	return response, nil
}

// Analyze runs the analysis without writing any output
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, cfg AnalyzeConfig, paths []string) (*domain.BatchResponse, error) {
	if len(paths) == 0 {
		return nil, domain.NewInvalidInputError("no paths specified", nil)
	}

	if len(paths) == 1 && paths[0] == StdinPath {
		payload, err := io.ReadAll(uc.stdin)
		if err != nil {
			return nil, domain.NewInvalidInputError("failed to read standard input", err)
		}
		return uc.batch.AnalyzeRequests(ctx, []domain.AnalysisRequest{{Name: domain.StdinName, Payload: payload}})
	}

	for _, p := range paths {
		if p == StdinPath {
			return nil, domain.NewInvalidInputError("standard input cannot be combined with other paths", nil)
		}
	}

	files, err := uc.fileHelper.CollectFiles(paths, cfg.Collect)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no files to analyze in the specified paths", nil)
	}
	log.Debug("collected files", "count", len(files))

	return uc.batch.AnalyzeFiles(ctx, files)
}

// write renders a lone report on its own and anything else as a batch
func (uc *AnalyzeUseCase) write(cfg AnalyzeConfig, response *domain.BatchResponse, duration time.Duration) error {
	writer, closeFn, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if len(response.Reports) == 1 && response.Summary.TotalFiles == 1 {
		err = uc.formatter.Write(response.Reports[0], cfg.OutputFormat, writer)
	} else {
		err = uc.formatter.WriteBatch(response, cfg.OutputFormat, writer, duration)
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

// openOutput picks the destination: the configured path, the default HTML file, or the writer
func openOutput(cfg AnalyzeConfig) (io.Writer, func(), error) {
	path := cfg.OutputPath
	if path == "" && cfg.OutputFormat == domain.OutputFormatHTML {
		path = constants.DefaultHTMLReport
	}

	if path == "" {
		if cfg.OutputWriter != nil {
			return cfg.OutputWriter, func() {}, nil
		}
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, domain.NewOutputError("failed to create "+path, err)
	}
	log.Info("writing report", "path", path)
	return f, func() { _ = f.Close() }, nil
}

// AnalyzeUseCaseBuilder builds an AnalyzeUseCase
type AnalyzeUseCaseBuilder struct {
	batch      BatchRunner
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
	stdin      io.Reader
}

// NewAnalyzeUseCaseBuilder creates a new builder
func NewAnalyzeUseCaseBuilder() *AnalyzeUseCaseBuilder {
	return &AnalyzeUseCaseBuilder{}
}

// WithBatchRunner sets the batch analyzer
func (b *AnalyzeUseCaseBuilder) WithBatchRunner(batch BatchRunner) *AnalyzeUseCaseBuilder {
	b.batch = batch
	return b
}

// WithFormatter sets the output formatter
func (b *AnalyzeUseCaseBuilder) WithFormatter(f domain.OutputFormatter) *AnalyzeUseCaseBuilder {
	b.formatter = f
	return b
}

// WithFileHelper sets the file helper
func (b *AnalyzeUseCaseBuilder) WithFileHelper(fh *FileHelper) *AnalyzeUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// WithStdin sets the reader used for "-"
func (b *AnalyzeUseCaseBuilder) WithStdin(r io.Reader) *AnalyzeUseCaseBuilder {
	b.stdin = r
	return b
}

// Build creates the AnalyzeUseCase
func (b *AnalyzeUseCaseBuilder) Build() (*AnalyzeUseCase, error) {
	if b.batch == nil {
		return nil, domain.NewInvalidInputError("batch runner is required", nil)
	}
	if b.formatter == nil {
		return nil, domain.NewInvalidInputError("output formatter is required", nil)
	}

	uc := &AnalyzeUseCase{
		batch:      b.batch,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
		stdin:      b.stdin,
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	if uc.stdin == nil {
		uc.stdin = os.Stdin
	}
	return uc, nil
}
