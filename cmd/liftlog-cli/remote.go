package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/liftlog/internal/client"
)

var (
	serverURL   string
	serverToken string

	logInput   inputFlags
	logPersist bool
	logAI      bool
	logType    string
	logDate    string

	queryStart    string
	queryEnd      string
	queryExercise string
	queryBucket   string
)

func init() {
	rootCmd.AddCommand(logCmd, setsCmd, summaryCmd)

	for _, c := range []*cobra.Command{logCmd, setsCmd, summaryCmd} {
		c.Flags().StringVar(&serverURL, "server", envOr("LIFTLOG_SERVER", "http://localhost:8080"), "liftlog server URL")
		c.Flags().StringVar(&serverToken, "token", os.Getenv("LIFTLOG_TOKEN"), "bearer token (see 'liftlog-cli token')")
	}

	logInput.register(logCmd)
	logCmd.Flags().BoolVar(&logPersist, "persist", true, "save the workout (false only previews)")
	logCmd.Flags().BoolVar(&logAI, "ai", false, "force AI parsing on the server")
	logCmd.Flags().StringVar(&logType, "type", "", "training type (server default: strength)")
	logCmd.Flags().StringVar(&logDate, "date", "", "session date YYYY-MM-DD (server default: today)")

	for _, c := range []*cobra.Command{setsCmd, summaryCmd} {
		c.Flags().StringVar(&queryStart, "start", "", "start date (YYYY-MM-DD or RFC 3339)")
		c.Flags().StringVar(&queryEnd, "end", "", "end date (YYYY-MM-DD or RFC 3339)")
	}
	setsCmd.Flags().StringVar(&queryExercise, "exercise", "", "filter by exercise name (partial match)")
	summaryCmd.Flags().StringVar(&queryBucket, "bucket", "1 week", "aggregation period ('1 week' or '1 month')")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() (*client.Client, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("--token or LIFTLOG_TOKEN is required")
	}
	return client.NewClient(serverURL, serverToken), nil
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 90*time.Second)
}

var logCmd = &cobra.Command{
	Use:   "log [text]",
	Short: "Send workout text to the server and save it",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := logInput.read(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if logDate != "" {
			if _, err := time.Parse(time.DateOnly, logDate); err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD")
			}
		}
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()
		resp, err := c.ParseWorkout(ctx, client.ParseRequest{
			RawText:      text,
			TrainingType: logType,
			Persist:      logPersist,
			UseAI:        logAI,
			SessionDate:  logDate,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List logged sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()

		rows, err := c.ExerciseSets(ctx, queryStart, queryEnd, queryExercise)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), rows)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show training totals per week or month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()

		periods, err := c.TrainingSummary(ctx, queryStart, queryEnd, queryBucket)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), periods)
	},
}
