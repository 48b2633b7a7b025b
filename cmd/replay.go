package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform/headless"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Replay tree updates and show the native events each platform raises",
	Long: `Replay a stream of tree updates (YAML documents separated by ---) against one or
more platforms. The first document is the initial tree and raises nothing; every
later document is applied in order and reported with the abstract notifications it
produced and the native events the platform raised for them.

A batch that fails validation is reported with its error and leaves the tree unchanged.

Examples:
  a11y-bridge replay testdata/batches.yaml
  a11y-bridge replay testdata/batches.yaml --platform uia,atspi --diff
  cat updates.yaml | a11y-bridge replay - --platform all --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("platform", "", "Comma-separated platforms, or all (default: config platform)")
	replayCmd.Flags().Bool("diff", false, "Include the structural diff of each batch")
	replayCmd.Flags().Bool("notifications", true, "Include abstract notifications")
}

func runReplay(cmd *cobra.Command, args []string) error {
	platformFlag, _ := cmd.Flags().GetString("platform")
	withDiff, _ := cmd.Flags().GetBool("diff")
	withNotes, _ := cmd.Flags().GetBool("notifications")
	if platformFlag == "" {
		platformFlag = cfg.Platform
	}
	names, err := platformNames(platformFlag)
	if err != nil {
		return err
	}
	batches, err := loadBatches(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	// Each platform gets its own adapter; they share nothing.
	perPlatform := make([][]output.BatchResult, len(names))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, name := range names {
		g.Go(func() error {
			rec := headless.NewRecorder()
			a, err := newAdapter(name, batches[0], rec)
			if err != nil {
				return err
			}
			defer a.Close()

			for b, u := range batches[1:] {
				if err := ctx.Err(); err != nil {
					return err
				}
				res := output.BatchResult{Platform: name, Batch: b + 1}
				prev := a.Snapshot()
				q, err := a.UpdateQueued(u)
				if err != nil {
					res.Version = prev.Version()
					res.Error = err.Error()
					perPlatform[i] = append(perPlatform[i], res)
					continue
				}
				curr := a.Snapshot()
				res.Version = curr.Version()
				if withDiff {
					d := tree.DiffSnapshots(prev, curr)
					res.Diff = &d
				}
				if withNotes {
					res.Notifications = q.Notifications()
				}
				res.Failed = q.Raise().Failed
				res.Events = rec.Drain()
				perPlatform[i] = append(perPlatform[i], res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	result := output.ReplayResult{File: args[0], Platforms: names}
	for _, rs := range perPlatform {
		result.Batches = append(result.Batches, rs...)
	}
	return output.Print(result)
}
