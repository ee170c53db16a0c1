package main

import (
	"fmt"
	"strings"

	"weedoo/internal/domain"

	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskPriority string
	taskCategory string
	taskDue      string
)

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority := domain.TaskPriority(taskPriority)
		switch priority {
		case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		default:
			return fmt.Errorf("priority must be one of: baixa, media, alta")
		}

		task := wd.stores.Tasks.Add(strings.Join(args, " "), priority, taskCategory)
		if taskDue != "" {
			wd.stores.Tasks.SetDueDate(task.ID, taskDue)
		}
		fmt.Printf("Added task %s\n", shortID(task.ID))
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := wd.stores.Tasks.Tasks()
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}
		for _, t := range tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			line := fmt.Sprintf("[%s] %s  %s (%s/%s)", mark, shortID(t.ID), t.Title, t.Priority, t.Category)
			if t.DueDate != "" {
				line += "  due " + t.DueDate
			}
			fmt.Println(line)
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle task completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := findTask(args[0])
		if err != nil {
			return err
		}
		wd.stores.Tasks.ToggleCompletion(task.ID)
		return nil
	},
}

var taskDueCmd = &cobra.Command{
	Use:   "due <id> [date]",
	Short: "Set or clear a task's due date",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := findTask(args[0])
		if err != nil {
			return err
		}
		due := ""
		if len(args) == 2 {
			due = args[1]
		}
		wd.stores.Tasks.SetDueDate(task.ID, due)
		return nil
	},
}

var taskRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Edit a task's title",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := findTask(args[0])
		if err != nil {
			return err
		}
		wd.stores.Tasks.UpdateTitle(task.ID, strings.Join(args[1:], " "))
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := findTask(args[0])
		if err != nil {
			return err
		}
		wd.stores.Tasks.Delete(task.ID)
		return nil
	},
}

var taskCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range wd.stores.Tasks.Categories() {
			fmt.Println(c)
		}
		return nil
	},
}

func findTask(idPrefix string) (*domain.Task, error) {
	var match *domain.Task
	for _, t := range wd.stores.Tasks.Tasks() {
		if strings.HasPrefix(t.ID, idPrefix) {
			if match != nil {
				return nil, fmt.Errorf("id %q is ambiguous", idPrefix)
			}
			match = t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no task with id %q", idPrefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", string(domain.PriorityMedium), "priority: baixa, media or alta")
	taskAddCmd.Flags().StringVarP(&taskCategory, "category", "c", "", "free-text category (default Geral)")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "due date, YYYY-MM-DD or YYYY-MM-DDTHH:MM")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskDueCmd, taskRenameCmd, taskRmCmd, taskCategoriesCmd)
}
