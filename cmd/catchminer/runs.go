package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmerrors "catchminer/internal/errors"
	"catchminer/internal/finding"
	"catchminer/internal/slogutil"
	"catchminer/internal/storage"
)

var (
	runsFormat string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs <database> [run-id]",
	Short: "List stored runs or show one run's summary tables",
	Long: `Read runs stored with 'catchminer analyze --db'.

Without a run ID the most recent runs are listed; with one, its catch block
and guarded call tables are shown.

Examples:
  catchminer runs runs.db
  catchminer runs --limit=5 --format=json runs.db
  catchminer runs runs.db 3f2c9a4e-...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsFormat, "format", "human", "Output format (json, human)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs listed")
	rootCmd.AddCommand(runsCmd)
}

// RunTablesResponse is one stored run with its summary tables.
type RunTablesResponse struct {
	Run          *storage.RunRecord     `json:"run"`
	CatchBlocks  []storage.BucketRecord `json:"catchBlocks"`
	GuardedCalls []storage.BucketRecord `json:"guardedCalls"`
}

func runRuns(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return cmerrors.Wrap(cmerrors.InputNotFound, "cannot open run database", err)
	}
	db, err := storage.Open(args[0], slogutil.NewDiscardLogger())
	if err != nil {
		return cmerrors.Wrap(cmerrors.InputNotFound, "cannot open run database", err)
	}
	defer db.Close()
	repo := storage.NewRunRepository(db)

	var resp interface{}
	if len(args) == 2 {
		rec, err := repo.Get(args[1])
		if err != nil {
			return cmerrors.Wrap(cmerrors.InternalError, "cannot read run", err)
		}
		if rec == nil {
			return cmerrors.New(cmerrors.InputNotFound, "no run "+args[1])
		}
		catches, err := repo.Buckets(rec.ID, finding.KindCatch)
		if err != nil {
			return cmerrors.Wrap(cmerrors.InternalError, "cannot read buckets", err)
		}
		calls, err := repo.Buckets(rec.ID, finding.KindGuardedCall)
		if err != nil {
			return cmerrors.Wrap(cmerrors.InternalError, "cannot read buckets", err)
		}
		resp = &RunTablesResponse{Run: rec, CatchBlocks: catches, GuardedCalls: calls}
	} else {
		runs, err := repo.List(runsLimit)
		if err != nil {
			return cmerrors.Wrap(cmerrors.InternalError, "cannot list runs", err)
		}
		resp = runs
	}

	out, err := FormatResponse(resp, OutputFormat(runsFormat))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
