package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alan/branch-cleaner/internal/matcher"
	"github.com/alan/branch-cleaner/internal/report"
)

type reportSection struct {
	title  string
	status matcher.Status
	items  []matcher.Classification
}

// DisplayReport writes the grouped breakdown followed by the deletion list
func DisplayReport(w io.Writer, owner, repo string, analysis *Analysis) {
	rep := analysis.Report

	current := analysis.CurrentBranch
	if current == "" {
		current = "(detached)"
	}
	fmt.Fprintf(w, "🔍 %s/%s: %d local branch(es), current branch %s\n", owner, repo, rep.Total(), current)

	sections := []reportSection{
		{title: "✅ Merged", status: matcher.StatusMerged, items: rep.Groups.Merged},
		{title: "🚫 Closed without merge", status: matcher.StatusClosedUnmerged, items: rep.Groups.ClosedUnmerged},
		{title: "🔄 Open", status: matcher.StatusOpen, items: rep.Groups.Open},
		{title: "❔ No pull request", status: matcher.StatusNoPullRequest, items: rep.Groups.NoPullRequest},
		{title: "⚠️  Lookup failed", status: matcher.StatusLookupError, items: rep.Groups.Errors},
	}

	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", section.title, len(section.items))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range section.items {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Branch, describe(c, rep))
		}
		_ = tw.Flush()
	}

	if len(rep.Skipped) > 0 {
		names := make([]string, 0, len(rep.Skipped))
		for _, c := range rep.Skipped {
			names = append(names, c.Branch)
		}
		fmt.Fprintf(w, "\n🛡️  Protected, not deleted: %s\n", strings.Join(names, ", "))
	}

	if len(rep.Deletions) == 0 {
		fmt.Fprintln(w, "\n✨ No branches to delete")
		return
	}
	fmt.Fprintf(w, "\n🗑️  Branches to delete (%d): %s\n", len(rep.Deletions), strings.Join(rep.Branches(), ", "))
}

func describe(c matcher.Classification, rep *report.Report) string {
	if c.Status == matcher.StatusLookupError {
		return fmt.Sprintf("error: %v", c.Err)
	}
	if c.PullRequest == nil {
		return "-"
	}

	desc := fmt.Sprintf("PR #%d\t%s", c.PullRequest.Number, c.PullRequest.Title)
	if rep.WouldDelete(c.Branch) {
		desc += "\t(delete)"
	}
	return desc
}

// DisplayBulkOperationSuccess reports how many deletions succeeded and lists failures
func DisplayBulkOperationSuccess(w io.Writer, result *ExecuteAllResult) {
	for _, err := range result.Errors {
		fmt.Fprintf(w, "⚠️  %v\n", err)
	}
	fmt.Fprintf(w, "✅ Successfully %s %d branch(es)\n", pastTense(result.OperationName), result.TotalProcessed)
}

// DisplayDryRun lists what cleanup would delete without claiming success
func DisplayDryRun(w io.Writer, deletions []report.Deletion) {
	fmt.Fprintln(w)
	for _, d := range deletions {
		pr := ""
		if d.PullRequest != nil {
			pr = fmt.Sprintf(" (PR #%d)", d.PullRequest.Number)
		}
		fmt.Fprintf(w, "  would delete %s%s\n", d.Branch, pr)
	}
	fmt.Fprintf(w, "💡 Would delete %d branch(es), dry run made no changes\n", len(deletions))
}

// pastTense returns the past tense form of operation verbs
func pastTense(operation string) string {
	switch operation {
	case "delete":
		return "deleted"
	default:
		return operation + "d"
	}
}
