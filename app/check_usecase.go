package app

import (
	"context"

	"github.com/ludo-technologies/smellscan/domain"
)

// CheckEvaluator turns a batch response into a quality gate result
type CheckEvaluator interface {
	Evaluate(response *domain.BatchResponse) *domain.CheckResult
}

// CheckUseCase analyzes inputs and evaluates them against the quality gate
type CheckUseCase struct {
	analyze   *AnalyzeUseCase
	evaluator CheckEvaluator
}

// NewCheckUseCase creates a check use case over an analyze use case
func NewCheckUseCase(analyze *AnalyzeUseCase, evaluator CheckEvaluator) *CheckUseCase {
	return &CheckUseCase{analyze: analyze, evaluator: evaluator}
}

// Execute analyzes paths without writing reports and returns the gate result.
// An error means nothing could be evaluated.
func (uc *CheckUseCase) Execute(ctx context.Context, cfg AnalyzeConfig, paths []string) (*domain.CheckResult, error) {
	response, err := uc.analyze.Analyze(ctx, cfg, paths)
	if err != nil {
		return nil, err
	}
	return uc.evaluator.Evaluate(response), nil
}
