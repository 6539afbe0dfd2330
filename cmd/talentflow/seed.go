package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with demo data when it is empty",
	Long:  "Every command seeds an empty store before running; seed reports what that step did.",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

//nolint:errcheck
func runSeed(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	res := cur.seeded
	if res.Skipped {
		fmt.Fprintln(out, "Store already contains jobs; nothing seeded")
		return nil
	}
	fmt.Fprintf(out, "Seeded %d jobs, %d candidates and %d assessments\n", res.Jobs, res.Candidates, res.Assessments)
	return nil
}
