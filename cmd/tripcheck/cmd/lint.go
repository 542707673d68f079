package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/voyagehq/tripcheck/internal/core/api"
	"github.com/voyagehq/tripcheck/internal/core/config"
	"github.com/voyagehq/tripcheck/internal/rules"
	"github.com/voyagehq/tripcheck/internal/timecheck"
	"github.com/voyagehq/tripcheck/internal/types"
)

var lintCmd = &cobra.Command{
	Use:   "lint <itinerary.json>",
	Short: "Validate an itinerary file offline",
	Long: `Lint runs the full rule catalog and the time-semantics check over an
itinerary JSON file without touching a database. Exits non-zero when any
segment fails with error severity.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().Bool("info", false, "include info-severity rules")
}

func runLint(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read itinerary file: %w", err)
	}

	var it types.Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		return fmt.Errorf("invalid itinerary JSON: %w", err)
	}

	cfg := config.DefaultServerConfig()
	if enableInfo, _ := cmd.Flags().GetBool("info"); enableInfo {
		cfg.Validation.EnableInfo = true
	}
	engine := api.EngineFromConfig(cfg)

	results := engine.ValidateAll(&it)

	// Stable report order regardless of map iteration
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	failed := false
	for _, id := range ids {
		res := results[types.SegmentID(id)]
		if !res.Valid {
			failed = true
		}
		seg, _ := it.FindSegment(types.SegmentID(id))
		fmt.Printf("%s (%s): %s\n", segmentLabel(seg), seg.Type, rules.Summarize(res))
		printOutcomes(res.Errors)
		printOutcomes(res.Warnings)
		printOutcomes(res.Info)
		printOutcomes(res.Notes)
	}

	issues := timecheck.ValidateItineraryTimes(it.Segments)
	for _, issue := range issues {
		fmt.Printf("%s: [%s] %s (suggested %s)\n",
			segmentLabel(issue.Segment), issue.Result.Severity, issue.Result.Issue, issue.Result.SuggestedTime)
	}
	if summary := timecheck.Summarize(issues); summary.Total > 0 {
		fmt.Printf("Time issues: %d total\n", summary.Total)
	}

	if failed {
		return fmt.Errorf("itinerary failed validation")
	}
	return nil
}

func printOutcomes(outcomes []rules.ReportedOutcome) {
	for _, o := range outcomes {
		fmt.Printf("  - %s: %s\n", o.RuleID, o.Message)
		if o.Suggestion != "" {
			fmt.Printf("    suggestion: %s\n", o.Suggestion)
		}
	}
}

func segmentLabel(seg types.Segment) string {
	if seg.Name != "" {
		return seg.Name
	}
	return string(seg.ID)
}
