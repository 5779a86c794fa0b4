package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionLeaveCmd())
	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var name, hostName, quizID string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session as host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hostName == "" || quizID == "" {
				return fmt.Errorf("--host-name and --quiz are required")
			}

			req := map[string]any{
				"name":        name,
				"host_name":   hostName,
				"quiz_id":     quizID,
				"max_players": maxPlayers,
			}
			var result JoinResult

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			// Save the host's player id for subsequent gameplay commands
			if err := cfg.SavePlayerID(result.Player.ID); err != nil {
				return fmt.Errorf("failed to save player id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Session name")
	cmd.Flags().StringVar(&hostName, "host-name", "", "Host display name (required)")
	cmd.Flags().StringVar(&quizID, "quiz", "", "Quiz id (required)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 4, "Maximum number of players")
	_ = cmd.MarkFlagRequired("host-name")
	_ = cmd.MarkFlagRequired("quiz")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Get session details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <join-code>",
		Short: "Join a session by join code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{
				"join_code": args[0],
				"name":      name,
			}
			var result JoinResult

			if err := client.Post("/api/v1/sessions/join", req, &result); err != nil {
				return err
			}

			// Save the player id for subsequent gameplay commands
			if err := cfg.SavePlayerID(result.Player.ID); err != nil {
				return fmt.Errorf("failed to save player id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSessionLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <session-id>",
		Short: "Leave a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return fmt.Errorf("no player id set; join a session first or pass --player")
			}

			req := map[string]string{"player_id": cfg.PlayerID}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/leave", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left session %s", args[0]))
			return nil
		},
	}
}

func newSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <session-id>",
		Short: "Start the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return fmt.Errorf("no player id set; create a session first or pass --player")
			}

			req := map[string]string{"player_id": cfg.PlayerID}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/start", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game started")
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return fmt.Errorf("no player id set; create a session first or pass --player")
			}

			path := fmt.Sprintf("/api/v1/sessions/%s?player_id=%s", args[0], cfg.PlayerID)
			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Session ended")
			return nil
		},
	}
}
