package service

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/log"
	"github.com/ludo-technologies/smellscan/internal/version"
)

// documentTask analyzes one document for the parallel executor
type documentTask struct {
	name     string
	load     func() ([]byte, error)
	analysis domain.AnalysisService
	report   *domain.AnalysisReport
}

func (t *documentTask) Name() string    { return t.name }
func (t *documentTask) IsEnabled() bool { return true }

func (t *documentTask) Execute(ctx context.Context) (interface{}, error) {
	payload, err := t.load()
	if err != nil {
		return nil, err
	}

	report, err := t.analysis.Analyze(ctx, domain.AnalysisRequest{Name: t.name, Payload: payload})
	if err != nil {
		return nil, err
	}
	t.report = report
	return report, nil
}

// BatchAnalyzer analyzes many documents concurrently with one AnalysisService
type BatchAnalyzer struct {
	analysis domain.AnalysisService
	executor *ParallelExecutorImpl
}

// NewBatchAnalyzer creates a batch analyzer. A nil executor uses NewParallelExecutor.
func NewBatchAnalyzer(analysis domain.AnalysisService, executor *ParallelExecutorImpl) *BatchAnalyzer {
	if executor == nil {
		executor = NewParallelExecutor()
	}
	return &BatchAnalyzer{analysis: analysis, executor: executor}
}

// AnalyzeFiles reads and analyzes every path. Reports keep the order of paths.
func (b *BatchAnalyzer) AnalyzeFiles(ctx context.Context, paths []string) (*domain.BatchResponse, error) {
	requests := make([]*documentTask, 0, len(paths))
	for _, path := range paths {
		requests = append(requests, &documentTask{
			name:     path,
			load:     fileLoader(path),
			analysis: b.analysis,
		})
	}
	return b.run(ctx, requests)
}

// AnalyzeRequests analyzes in-memory documents. Reports keep the order of reqs.
func (b *BatchAnalyzer) AnalyzeRequests(ctx context.Context, reqs []domain.AnalysisRequest) (*domain.BatchResponse, error) {
	requests := make([]*documentTask, 0, len(reqs))
	for _, req := range reqs {
		payload := req.Payload
		requests = append(requests, &documentTask{
			name:     req.Name,
			load:     func() ([]byte, error) { return payload, nil },
			analysis: b.analysis,
		})
	}
	return b.run(ctx, requests)
}

// run executes the tasks. Individual failures are listed in the response;
// an error is returned only when nothing could be analyzed.
func (b *BatchAnalyzer) run(ctx context.Context, docs []*documentTask) (*domain.BatchResponse, error) {
	start := time.Now()

	tasks := make([]domain.ExecutableTask, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d)
	}

	execErr := b.executor.Execute(ctx, tasks)

	response := &domain.BatchResponse{
		Reports:     make([]*domain.AnalysisReport, 0, len(docs)),
		GeneratedAt: start.Format(time.RFC3339),
		Version:     version.Version,
	}
	for _, d := range docs {
		if d.report != nil {
			response.Reports = append(response.Reports, d.report)
		}
	}

	var aggregated *AggregatedError
	if errors.As(execErr, &aggregated) {
		response.Errors = aggregated.Messages()
		for _, e := range aggregated.Errors {
			log.Warn("document not analyzed", "document", e.TaskName, "error", e.Err)
		}
	} else if execErr != nil {
		return nil, execErr
	}

	response.Summarize(len(docs))
	response.DurationMs = time.Since(start).Milliseconds()

	if len(response.Reports) == 0 && execErr != nil {
		return response, execErr
	}
	return response, nil
}

func fileLoader(path string) func() ([]byte, error) {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		if err != nil {
			return nil, domain.NewAnalysisError("failed to read "+path, err)
		}
		return data, nil
	}
}
