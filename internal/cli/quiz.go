package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz authoring commands",
	}

	cmd.AddCommand(newQuizCreateCmd())
	cmd.AddCommand(newQuizListCmd())
	cmd.AddCommand(newQuizGetCmd())
	cmd.AddCommand(newQuizAddCategoryCmd())
	cmd.AddCommand(newQuizAddQuestionCmd())
	cmd.AddCommand(newQuizBoardCmd())

	return cmd
}

func newQuizCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{"name": name}
			var result Quiz

			if err := client.Post("/api/v1/quizzes", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Quiz name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newQuizListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result QuizList

			if err := client.Get("/api/v1/quizzes", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newQuizGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <quiz-id>",
		Short: "Get quiz details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Quiz

			if err := client.Get(fmt.Sprintf("/api/v1/quizzes/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newQuizAddCategoryCmd() *cobra.Command {
	var name string
	var position, board int

	cmd := &cobra.Command{
		Use:   "add-category <quiz-id>",
		Short: "Add a category to a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]any{
				"name":     name,
				"position": position,
				"board":    board,
			}
			var result Category

			if err := client.Post(fmt.Sprintf("/api/v1/quizzes/%s/categories", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name (required)")
	cmd.Flags().IntVar(&position, "position", 0, "Column position on the board")
	cmd.Flags().IntVar(&board, "board", 1, "Board number (1 or 2)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newQuizAddQuestionCmd() *cobra.Command {
	var categoryID, text, answer, questionType, imageRef string
	var points int

	cmd := &cobra.Command{
		Use:   "add-question <quiz-id>",
		Short: "Add a question to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if categoryID == "" || text == "" || answer == "" {
				return fmt.Errorf("--category, --text, and --answer are required")
			}
			if points == 0 {
				return fmt.Errorf("--points is required")
			}

			req := map[string]any{
				"category_id": categoryID,
				"points":      points,
				"text":        text,
				"answer":      answer,
			}
			if questionType != "" {
				req["type"] = questionType
			}
			if imageRef != "" {
				req["image_ref"] = imageRef
			}

			var result Question

			if err := client.Post(fmt.Sprintf("/api/v1/quizzes/%s/questions", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Category id (required)")
	cmd.Flags().IntVar(&points, "points", 0, "Base point value: 100, 200, 300, or 500 (required)")
	cmd.Flags().StringVar(&text, "text", "", "Question text (required)")
	cmd.Flags().StringVar(&answer, "answer", "", "Expected answer (required)")
	cmd.Flags().StringVar(&questionType, "type", "", "Question type: text, image")
	cmd.Flags().StringVar(&imageRef, "image", "", "Image reference for image questions")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("points")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func newQuizBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <quiz-id> <board>",
		Short: "Show a quiz board with answers (authoring view)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board

			if err := client.Get(fmt.Sprintf("/api/v1/quizzes/%s/boards/%s", args[0], args[1]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
