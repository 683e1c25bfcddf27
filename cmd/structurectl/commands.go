package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/coursecraft-backend/internal/client/structure"
	"github.com/yungbote/coursecraft-backend/internal/dnd"
)

type printNotifier struct {
	out io.Writer
}

func (p printNotifier) Success(message string) { fmt.Fprintln(p.out, "ok:", message) }
func (p printNotifier) Error(message string)   { fmt.Fprintln(p.out, "error:", message) }

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Print the course outline in position order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, log, err := session(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		printMirror(cmd.OutOrStdout(), ctrl.Mirror())
		return nil
	},
}

var (
	moveKind string
	moveFrom string
	moveOnto string
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Drop a chapter or lesson onto another one and persist the new order",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := dnd.Kind(strings.ToLower(moveKind))
		if kind != dnd.KindChapter && kind != dnd.KindLesson {
			return fmt.Errorf("--kind must be chapter or lesson")
		}
		from, err := uuid.Parse(moveFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		onto, err := uuid.Parse(moveOnto)
		if err != nil {
			return fmt.Errorf("invalid --onto: %w", err)
		}

		ctrl, log, err := session(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		gesture := dnd.Gesture{
			Active: dnd.Item{Kind: kind, ID: from},
			Over:   &dnd.Item{Kind: kind, ID: onto},
		}
		outcome, err := ctrl.Drop(cmd.Context(), gesture)
		if outcome == structure.OutcomeNoop && err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
		}
		printMirror(cmd.OutOrStdout(), ctrl.Mirror())
		return err
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveKind, "kind", "chapter", "chapter or lesson")
	moveCmd.Flags().StringVar(&moveFrom, "from", "", "id of the dragged item")
	moveCmd.Flags().StringVar(&moveOnto, "onto", "", "id of the item it is dropped on")
	_ = moveCmd.MarkFlagRequired("from")
	_ = moveCmd.MarkFlagRequired("onto")
}

func printMirror(w io.Writer, m structure.Mirror) {
	for _, ch := range m.Chapters {
		fmt.Fprintf(w, "%d. %s  [%s]\n", ch.Position, ch.Title, ch.ID)
		for _, l := range ch.Lessons {
			fmt.Fprintf(w, "   %d.%d %s  [%s]\n", ch.Position, l.Position, l.Title, l.ID)
		}
	}
}
