package main

import (
	"fmt"
	"strings"

	"weedoo/internal/domain"
	"weedoo/internal/store"

	"github.com/spf13/cobra"
)

var kanbanCmd = &cobra.Command{
	Use:   "kanban",
	Short: "Manage the kanban board",
}

var kanbanBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the board",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, col := range wd.stores.Kanban.OrderedColumns() {
			fmt.Printf("== %s (%s)\n", col.Title, col.ID)
			for _, t := range wd.stores.Kanban.TasksForColumn(col.ID) {
				fmt.Printf("   %s  %s\n", shortID(t.ID), t.Content)
			}
		}
		return nil
	},
}

var kanbanAddColumnCmd = &cobra.Command{
	Use:   "add-column <title>",
	Short: "Add a column",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		col := wd.stores.Kanban.AddColumn(strings.Join(args, " "))
		fmt.Printf("Added column %s\n", shortID(col.ID))
		return nil
	},
}

var kanbanRenameColumnCmd = &cobra.Command{
	Use:   "rename-column <id> <title>",
	Short: "Rename a column",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := findColumn(args[0])
		if err != nil {
			return err
		}
		wd.stores.Kanban.UpdateColumn(col.ID, strings.Join(args[1:], " "))
		return nil
	},
}

var kanbanRmColumnCmd = &cobra.Command{
	Use:   "rm-column <id>",
	Short: "Delete a column and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := findColumn(args[0])
		if err != nil {
			return err
		}
		wd.stores.Kanban.DeleteColumn(col.ID)
		return nil
	},
}

var kanbanAddCmd = &cobra.Command{
	Use:   "add <column> <content>",
	Short: "Add a card to a column",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := findColumn(args[0])
		if err != nil {
			return err
		}
		task := wd.stores.Kanban.AddTask(col.ID, strings.Join(args[1:], " "))
		fmt.Printf("Added card %s to %s\n", shortID(task.ID), col.Title)
		return nil
	},
}

var kanbanMvCmd = &cobra.Command{
	Use:   "mv <card> <column>",
	Short: "Move a card to another column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := findCard(args[0])
		if err != nil {
			return err
		}
		col, err := findColumn(args[1])
		if err != nil {
			return err
		}
		wd.stores.Kanban.UpdateTask(task.ID, store.KanbanTaskUpdate{ColumnID: &col.ID})
		return nil
	},
}

var kanbanRmCmd = &cobra.Command{
	Use:   "rm <card>",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := findCard(args[0])
		if err != nil {
			return err
		}
		wd.stores.Kanban.DeleteTask(task.ID)
		return nil
	},
}

func findColumn(idOrPrefix string) (*domain.KanbanColumn, error) {
	var match *domain.KanbanColumn
	for _, col := range wd.stores.Kanban.Columns() {
		if col.ID == idOrPrefix {
			return col, nil
		}
		if strings.HasPrefix(col.ID, idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("column id %q is ambiguous", idOrPrefix)
			}
			match = col
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no column with id %q", idOrPrefix)
	}
	return match, nil
}

func findCard(idPrefix string) (*domain.KanbanTask, error) {
	var match *domain.KanbanTask
	for _, t := range wd.stores.Kanban.Tasks() {
		if strings.HasPrefix(t.ID, idPrefix) {
			if match != nil {
				return nil, fmt.Errorf("card id %q is ambiguous", idPrefix)
			}
			match = t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no card with id %q", idPrefix)
	}
	return match, nil
}

func init() {
	kanbanCmd.AddCommand(kanbanBoardCmd, kanbanAddColumnCmd, kanbanRenameColumnCmd,
		kanbanRmColumnCmd, kanbanAddCmd, kanbanMvCmd, kanbanRmCmd)
}
