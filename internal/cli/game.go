package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Gameplay commands",
	}

	cmd.AddCommand(newGameStateCmd())
	cmd.AddCommand(newGameBoardCmd())
	cmd.AddCommand(newGameSelectCmd())
	cmd.AddCommand(newGameBuzzCmd())
	cmd.AddCommand(newGameJudgeCmd())
	cmd.AddCommand(newGameSkipCmd())
	cmd.AddCommand(newGamePickCmd())
	cmd.AddCommand(newGameResolveCmd())
	cmd.AddCommand(newGameResultsCmd())

	return cmd
}

func requirePlayerID() error {
	if cfg.PlayerID == "" {
		return fmt.Errorf("no player id set; join a session first or pass --player")
	}
	return nil
}

func newGameStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <session-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/state", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <session-id>",
		Short: "Show the active board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/sessions/%s/board", args[0])
			if cfg.PlayerID != "" {
				path += "?player_id=" + cfg.PlayerID
			}

			var result Board

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <session-id> <question-id>",
		Short: "Select a question from the board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayerID(); err != nil {
				return err
			}

			req := map[string]string{
				"player_id":   cfg.PlayerID,
				"question_id": args[1],
			}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/question", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Question selected")
			return nil
		},
	}
}

func newGameBuzzCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buzz <session-id> <question-id>",
		Short: "Buzz in on the current question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayerID(); err != nil {
				return err
			}

			req := map[string]string{
				"player_id":   cfg.PlayerID,
				"question_id": args[1],
			}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/buzz", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Buzzed in")
			return nil
		},
	}
}

func newGameJudgeCmd() *cobra.Command {
	var correct bool

	cmd := &cobra.Command{
		Use:   "judge <session-id>",
		Short: "Judge the current answer (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayerID(); err != nil {
				return err
			}

			req := map[string]any{
				"player_id": cfg.PlayerID,
				"correct":   correct,
			}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/judge", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if correct {
				out.PrintMessage("Judged correct")
			} else {
				out.PrintMessage("Judged wrong")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&correct, "correct", false, "Mark the answer as correct")

	return cmd
}

func newGameSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <session-id>",
		Short: "Skip the current question (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayerID(); err != nil {
				return err
			}

			req := map[string]string{"player_id": cfg.PlayerID}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/skip", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Question skipped")
			return nil
		},
	}
}

func newGamePickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick <session-id> <player-id>",
		Short: "Pick which buzzed player answers (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayerID(); err != nil {
				return err
			}

			req := map[string]string{
				"player_id":        cfg.PlayerID,
				"target_player_id": args[1],
			}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/buzzer", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Picked %s to answer", args[1]))
			return nil
		},
	}
}

func newGameResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <session-id>",
		Short: "Resolve an expired buzz window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/window/resolve", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Buzz window resolved")
			return nil
		},
	}
}

func newGameResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <session-id>",
		Short: "Show final game results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Results

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/results", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
