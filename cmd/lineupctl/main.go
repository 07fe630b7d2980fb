package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/squad-lineup/external/soms"
	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"github.com/riskibarqy/squad-lineup/internal/platform/resilience"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	baseURL    string
	timeout    time.Duration
	teamID     int64
	verbose    bool
	withDetail bool
	matchID    int64
	formCode   string

	rootCmd = &cobra.Command{
		Use:           "lineupctl",
		Short:         "Inspect formations and saved lineups",
		Long:          "lineupctl lists the formation catalog and reads saved lineups from the club backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	formationsCmd = &cobra.Command{
		Use:   "formations",
		Short: "Print the formation catalog with role numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeFormations(cmd.OutOrStdout(), formation.DefaultRoleTable())
		},
	}

	lineupsCmd = &cobra.Command{
		Use:   "lineups",
		Short: "List lineups saved on the club backend",
		Args:  cobra.NoArgs,
		RunE:  runLineups,
	}

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Load the newest lineup for a match and formation",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("SOMS_BASE_URL", "http://localhost:8000"), "Club backend base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().Int64Var(&teamID, "team", 1, "Team id lineups belong to")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log backend requests to stderr")

	lineupsCmd.Flags().BoolVar(&withDetail, "assignments", false, "Fetch role assignments for every lineup")

	showCmd.Flags().Int64Var(&matchID, "match", 0, "Match id")
	showCmd.Flags().StringVar(&formCode, "formation", string(formation.Code433), "Formation code")
	_ = showCmd.MarkFlagRequired("match")

	rootCmd.AddCommand(formationsCmd, lineupsCmd, showCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootCmd.PrintErrln("Error:", err)
		stop()
		os.Exit(1)
	}
}

func runLineups(cmd *cobra.Command, _ []string) error {
	records, err := newSyncService().ListLineups(cmd.Context(), withDetail)
	if err != nil {
		return err
	}
	return writeLineups(cmd.OutOrStdout(), records, time.Now())
}

func runShow(cmd *cobra.Command, _ []string) error {
	code, err := formation.ParseCode(formCode)
	if err != nil {
		return err
	}

	syncService := newSyncService()
	squad, err := syncService.FetchSquad(cmd.Context())
	if err != nil {
		return err
	}

	board := lineup.NewBoard(squad, code)
	loaded, err := syncService.LoadForMatchAndFormation(cmd.Context(), board, matchID, code)
	if err != nil {
		return err
	}
	return writeLineup(cmd.OutOrStdout(), loaded, board.Snapshot(), syncService.Roles(), time.Now())
}

func newSyncService() *usecase.LineupSyncService {
	logger := logging.NewNop()
	if verbose {
		logger = logging.NewJSONWriter(os.Stderr, logging.LevelDebug)
	}

	client := soms.NewClient(soms.ClientConfig{
		BaseURL:        baseURL,
		Timeout:        timeout,
		MaxRetries:     1,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
	return usecase.NewLineupSyncService(client, formation.DefaultRoleTable(), nil, usecase.LineupSyncConfig{TeamID: teamID}, logger)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
