package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newInitCmd creates the data directory and any missing table files.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and empty tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap()
			if err != nil {
				return err
			}
			env.log.Info("tables ready")
			return nil
		},
	}
}

// newLeaderboardCmd prints the full joined leaderboard.
func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the full leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap()
			if err != nil {
				return err
			}
			rows, err := env.boards.FullLeaderboard()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tSTUDENT\tQUIZ\tSCORE (%)\tTIME (s)")
			for i, row := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", i+1, row.StudentName, row.QuizTitle, row.Score, row.TimeTaken)
			}
			return w.Flush()
		},
	}
}

// newCleanupCmd runs the student-roster maintenance pass.
func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove duplicate student rows from the user table",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap()
			if err != nil {
				return err
			}
			removed, err := env.auth.CleanupStudents()
			if err != nil {
				return err
			}
			fmt.Printf("removed %d row(s)\n", removed)
			return nil
		},
	}
}
