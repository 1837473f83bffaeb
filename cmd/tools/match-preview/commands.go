package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
	"mentor-matching/internal/profilestore"
	"mentor-matching/pkg/registry"
)

// Linker flags.
var (
	version = "dev"
	commit  = "none"
)

type options struct {
	profilesPath string
	subjectID    string
	candidateID  string
	closeness    bool
	limit        int
	noColor      bool
	registryPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "match-preview",
		Short:        "Preview mentor/mentee rankings from a JSON profile fixture.",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured strength labels")

	root.AddCommand(newRankCmd(opts), newScoreCmd(opts), newLevelsCmd(), newTasksCmd(opts), newVersionCmd())
	return root
}

// addMatchFlags registers the flags shared by rank and score.
func addMatchFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.profilesPath, "profiles", "p", "", "JSON array of profiles")
	fs.StringVarP(&opts.subjectID, "subject", "s", "", "Subject profile id")
	fs.BoolVar(&opts.closeness, "closeness", false, "Prefer closeness in age over an older mentor")
}

func newRankCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the subject's opposite-role candidates.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadStore(opts.profilesPath)
			if err != nil {
				return err
			}
			calc, err := matching.NewCalculator(matching.DefaultWeights())
			if err != nil {
				return err
			}
			ranker := matching.NewRanker(profilestore.NewBatchRetriever(store, store), calc, logger.NewNoOpLogger())

			results, err := ranker.RankCandidates(context.Background(), opts.subjectID, !opts.closeness)
			if err != nil {
				return err
			}
			total := len(results)
			if opts.limit > 0 && opts.limit < total {
				results = results[:opts.limit]
			}
			return writeRankTable(cmd.OutOrStdout(), results, total)
		},
	}
	addMatchFlags(cmd.Flags(), opts)
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Show at most n matches (0 shows all)")
	_ = cmd.MarkFlagRequired("profiles")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newScoreCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one subject against one candidate, without the relevance floor.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadStore(opts.profilesPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			subject, err := store.GetProfile(ctx, opts.subjectID)
			if err != nil {
				return err
			}
			candidate, err := store.GetProfile(ctx, opts.candidateID)
			if err != nil {
				return err
			}
			if err := checkPair(subject, candidate); err != nil {
				return err
			}

			calc, err := matching.NewCalculator(matching.DefaultWeights())
			if err != nil {
				return err
			}
			result, err := calc.Calculate(subject, candidate, !opts.closeness)
			if err != nil {
				return err
			}
			return writeScore(cmd.OutOrStdout(), subject, result)
		},
	}
	addMatchFlags(cmd.Flags(), opts)
	cmd.Flags().StringVarP(&opts.candidateID, "candidate", "c", "", "Candidate profile id")
	_ = cmd.MarkFlagRequired("profiles")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("candidate")
	return cmd
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the accepted education levels and their ranks.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeLevels(cmd.OutOrStdout())
		},
	}
}

func newTasksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Validate the activity registry and list the published task types.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(opts.registryPath)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			return writeTasks(cmd.OutOrStdout(), reg)
		},
	}
	cmd.Flags().StringVarP(&opts.registryPath, "registry", "r", "configs/activity-registry.json", "Activity registry file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of match-preview.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("match-preview\n")
			cmd.Printf("  Version: %s\n", version)
			cmd.Printf("  Commit:  %s\n", commit)
			cmd.Printf("  Runtime: %s\n", runtime.Version())
		},
	}
}

func loadStore(path string) (*profilestore.MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()
	return profilestore.LoadJSON(f)
}

func checkPair(subject, candidate *models.Profile) error {
	if err := subject.Validate(); err != nil {
		return err
	}
	if err := candidate.Validate(); err != nil {
		return err
	}
	if subject.ID == candidate.ID {
		return fmt.Errorf("profile %s cannot be scored against itself", subject.ID)
	}
	if candidate.Role() != subject.Role().Opposite() {
		return fmt.Errorf("candidate %s is a %s, subject %s needs a %s",
			candidate.ID, candidate.Role(), subject.ID, subject.Role().Opposite())
	}
	return nil
}
