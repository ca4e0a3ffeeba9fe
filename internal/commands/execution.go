package commands

import (
	"fmt"
	"io"

	"github.com/alan/branch-cleaner/internal/report"
	"go.uber.org/zap"
)

// BranchDeleter removes one local branch
type BranchDeleter interface {
	DeleteBranch(name string) error
}

// ExecuteAllResult encapsulates the result of bulk operations
type ExecuteAllResult struct {
	TotalProcessed int
	Errors         []error
	OperationName  string
}

// DeleteBranches deletes every branch on the list in order. A failure is
// recorded and the remaining branches are still attempted.
func DeleteBranches(w io.Writer, deleter BranchDeleter, deletions []report.Deletion, logger *zap.Logger) *ExecuteAllResult {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &ExecuteAllResult{OperationName: "delete"}
	for _, d := range deletions {
		if err := deleter.DeleteBranch(d.Branch); err != nil {
			logger.Warn("Failed to delete branch", zap.String("branch", d.Branch), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Errorf("branch %s: %w", d.Branch, err))
			continue
		}

		pr := ""
		if d.PullRequest != nil {
			pr = fmt.Sprintf(" (PR #%d)", d.PullRequest.Number)
		}
		fmt.Fprintf(w, "🗑️  Deleted %s%s\n", d.Branch, pr)
		result.TotalProcessed++
	}
	return result
}

// HandleExecuteAllResult provides consistent messaging for bulk operations
func HandleExecuteAllResult(w io.Writer, result *ExecuteAllResult) error {
	if result.TotalProcessed == 0 {
		if len(result.Errors) > 0 {
			return fmt.Errorf("no operations completed due to errors: %v", result.Errors)
		}
		return nil
	}

	DisplayBulkOperationSuccess(w, result)
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d of %d %s operation(s) failed", len(result.Errors), result.TotalProcessed+len(result.Errors), result.OperationName)
	}
	return nil
}
