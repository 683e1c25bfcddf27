package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"

	"github.com/yungbote/coursecraft-backend/internal/client/api"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

var (
	editTitle        string
	editChapter      string
	editLesson       string
	editDescription  string
	editVideoKey     string
	editThumbnailKey string
	editMetadata     string
	editStatus       string
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Add or remove chapters",
}

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Add or remove lessons",
}

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Edit course details",
}

var courseEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update title, description, status or metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := metadataFlag()
		if err != nil {
			return err
		}
		return runEdit(cmd, func(ctx context.Context, c api.Client, course uuid.UUID) (services.Result, error) {
			return c.UpdateCourse(ctx, services.UpdateCourseRequest{
				CourseID:    course,
				Title:       editTitle,
				Description: editDescription,
				Status:      editStatus,
				Metadata:    meta,
			})
		})
	},
}

var chapterAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a chapter to the course",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, func(ctx context.Context, c api.Client, course uuid.UUID) (services.Result, error) {
			return c.CreateChapter(ctx, course, editTitle)
		})
	},
}

var chapterRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete a chapter with its lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		chapterID, err := uuid.Parse(editChapter)
		if err != nil {
			return fmt.Errorf("invalid --chapter: %w", err)
		}
		return runEdit(cmd, func(ctx context.Context, c api.Client, course uuid.UUID) (services.Result, error) {
			return c.DeleteChapter(ctx, course, chapterID)
		})
	},
}

var lessonAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a lesson to a chapter",
	RunE: func(cmd *cobra.Command, args []string) error {
		chapterID, err := uuid.Parse(editChapter)
		if err != nil {
			return fmt.Errorf("invalid --chapter: %w", err)
		}
		meta, err := metadataFlag()
		if err != nil {
			return err
		}
		return runEdit(cmd, func(ctx context.Context, c api.Client, course uuid.UUID) (services.Result, error) {
			return c.CreateLesson(ctx, services.CreateLessonRequest{
				CourseID:     course,
				ChapterID:    chapterID,
				Title:        editTitle,
				Description:  editDescription,
				VideoKey:     editVideoKey,
				ThumbnailKey: editThumbnailKey,
				Metadata:     meta,
			})
		})
	},
}

var lessonRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete a lesson",
	RunE: func(cmd *cobra.Command, args []string) error {
		chapterID, err := uuid.Parse(editChapter)
		if err != nil {
			return fmt.Errorf("invalid --chapter: %w", err)
		}
		lessonID, err := uuid.Parse(editLesson)
		if err != nil {
			return fmt.Errorf("invalid --lesson: %w", err)
		}
		return runEdit(cmd, func(ctx context.Context, c api.Client, course uuid.UUID) (services.Result, error) {
			return c.DeleteLesson(ctx, course, chapterID, lessonID)
		})
	},
}

func metadataFlag() (datatypes.JSON, error) {
	raw := strings.TrimSpace(editMetadata)
	if raw == "" {
		return nil, nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("--metadata must be valid JSON")
	}
	return datatypes.JSON(raw), nil
}

// runEdit sends one mutation and prints its result. A rejected mutation is a
// command error.
func runEdit(cmd *cobra.Command, send func(context.Context, api.Client, uuid.UUID) (services.Result, error)) error {
	client, course, log, err := connect()
	if err != nil {
		return err
	}
	defer log.Sync()

	res, err := send(cmd.Context(), client, course)
	if err != nil {
		return err
	}
	notes := printNotifier{out: cmd.OutOrStdout()}
	if !res.OK() {
		notes.Error(res.Message)
		return fmt.Errorf("%s", res.Message)
	}
	notes.Success(res.Message)
	return nil
}

func init() {
	courseEditCmd.Flags().StringVar(&editTitle, "title", "", "course title")
	courseEditCmd.Flags().StringVar(&editDescription, "description", "", "course description")
	courseEditCmd.Flags().StringVar(&editStatus, "status", "", "Draft, Published or Archived; empty keeps the current one")
	courseEditCmd.Flags().StringVar(&editMetadata, "metadata", "", "JSON object replacing the course metadata")
	_ = courseEditCmd.MarkFlagRequired("title")
	courseCmd.AddCommand(courseEditCmd)

	chapterAddCmd.Flags().StringVar(&editTitle, "title", "", "chapter title")
	_ = chapterAddCmd.MarkFlagRequired("title")
	chapterRmCmd.Flags().StringVar(&editChapter, "chapter", "", "chapter id")
	_ = chapterRmCmd.MarkFlagRequired("chapter")
	chapterCmd.AddCommand(chapterAddCmd, chapterRmCmd)

	lessonAddCmd.Flags().StringVar(&editChapter, "chapter", "", "chapter id")
	lessonAddCmd.Flags().StringVar(&editTitle, "title", "", "lesson title")
	lessonAddCmd.Flags().StringVar(&editDescription, "description", "", "lesson description")
	lessonAddCmd.Flags().StringVar(&editVideoKey, "video-key", "", "stored video key")
	lessonAddCmd.Flags().StringVar(&editThumbnailKey, "thumbnail-key", "", "stored thumbnail key")
	lessonAddCmd.Flags().StringVar(&editMetadata, "metadata", "", "JSON object kept with the lesson")
	_ = lessonAddCmd.MarkFlagRequired("chapter")
	_ = lessonAddCmd.MarkFlagRequired("title")
	lessonRmCmd.Flags().StringVar(&editChapter, "chapter", "", "chapter id")
	lessonRmCmd.Flags().StringVar(&editLesson, "lesson", "", "lesson id")
	_ = lessonRmCmd.MarkFlagRequired("chapter")
	_ = lessonRmCmd.MarkFlagRequired("lesson")
	lessonCmd.AddCommand(lessonAddCmd, lessonRmCmd)
}
