package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/coursecraft-backend/internal/client/api"
	"github.com/yungbote/coursecraft-backend/internal/client/structure"
	"github.com/yungbote/coursecraft-backend/internal/platform/envutil"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

var (
	baseURL  string
	token    string
	timeout  time.Duration
	courseID string
	logMode  string
)

var rootCmd = &cobra.Command{
	Use:          "structurectl",
	Short:        "Inspect and edit a course outline through the course API",
	SilenceUsage: true,
}

func init() {
	defaults := api.ConfigFromEnv()
	rootCmd.PersistentFlags().StringVar(&baseURL, "api", defaults.BaseURL, "course API base url (COURSE_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", defaults.Token, "bearer token (COURSE_API_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaults.Timeout, "per-request timeout (COURSE_API_TIMEOUT)")
	rootCmd.PersistentFlags().StringVar(&courseID, "course", "", "course id")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", envutil.String("LOG_MODE", "development"), "logger mode")
	_ = rootCmd.MarkPersistentFlagRequired("course")

	rootCmd.AddCommand(outlineCmd, moveCmd, courseCmd, chapterCmd, lessonCmd)
}

// connect builds an API client for the --course flag.
func connect() (api.Client, uuid.UUID, *logger.Logger, error) {
	id, err := uuid.Parse(courseID)
	if err != nil {
		return nil, uuid.Nil, nil, fmt.Errorf("invalid --course: %w", err)
	}
	log, err := logger.New(logMode, "info")
	if err != nil {
		return nil, uuid.Nil, nil, err
	}
	client, err := api.New(log, api.Config{BaseURL: baseURL, Token: token, Timeout: timeout})
	if err != nil {
		return nil, uuid.Nil, nil, err
	}
	return client, id, log, nil
}

// session loads the course into a fresh controller.
func session(cmd *cobra.Command) (*structure.Controller, *logger.Logger, error) {
	client, id, log, err := connect()
	if err != nil {
		return nil, nil, err
	}
	ctrl := structure.NewController(log, id, client, printNotifier{out: cmd.OutOrStdout()}, structure.Options{CallTimeout: timeout})
	if err := ctrl.Reload(cmd.Context()); err != nil {
		return nil, nil, fmt.Errorf("load outline: %w", err)
	}
	return ctrl, log, nil
}
