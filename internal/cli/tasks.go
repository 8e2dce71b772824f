package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/taskping/taskping/internal/model"
	"github.com/taskping/taskping/internal/storage"
)

var (
	taskHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	taskRowStyle    = lipgloss.NewStyle().PaddingLeft(2)
	urgentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	slotStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newTasksCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "show the stored task list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.DBPath == "" {
				return errors.New("db_path is not configured")
			}
			if cfg.AllowedUserID == "" {
				return errors.New("allowed_user_id is not configured")
			}

			repo, err := storage.OpenSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = repo.Close() }()

			tasks, err := repo.GetTasks(cmd.Context(), cfg.AllowedUserID)
			if err != nil {
				return err
			}
			cmd.Println(renderTasks(cfg.AllowedUserID, tasks))
			return nil
		},
	}
}

func renderTasks(userID string, tasks []model.Task) string {
	lines := []string{taskHeaderStyle.Render(fmt.Sprintf("tasks for %s", userID))}
	if len(tasks) == 0 {
		return lines[0] + "\n" + taskRowStyle.Render("(none)")
	}
	for i, t := range tasks {
		row := fmt.Sprintf("%d. [P%d] %s (%s)", i+1, t.Priority, t.Name, t.Deadline)
		if t.Priority == model.PriorityMin {
			row = urgentStyle.Render(row)
		}
		lines = append(lines, taskRowStyle.Render(row))
		if len(t.SentSlots) > 0 {
			lines = append(lines, taskRowStyle.Render(slotStyle.Render("sent: "+strings.Join(t.SentSlots, ", "))))
		}
	}
	return strings.Join(lines, "\n")
}
