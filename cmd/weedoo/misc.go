package main

import (
	"fmt"

	"weedoo/internal/agenda"

	"github.com/spf13/cobra"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda [date]",
	Short: "Show due tasks and events in one feed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := wd.stores.Tasks.Tasks()
		events := wd.stores.Calendar.Events()

		var entries []agenda.Entry
		if len(args) == 1 {
			entries = agenda.ForDate(tasks, events, args[0])
		} else {
			entries = agenda.Feed(tasks, events)
		}

		if len(entries) == 0 {
			fmt.Println("Nothing scheduled.")
			return nil
		}
		for _, e := range entries {
			when := e.Date
			if e.Time != "" {
				when += " " + e.Time
			}
			fmt.Printf("%s  [%s] %s\n", when, e.Kind, e.Title)
		}
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push all snapshots to the cloud now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wd.sync.ForceSync(); err != nil {
			return err
		}
		fmt.Println("Synced.")
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Toggle dark mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		if wd.stores.Theme.Toggle() {
			fmt.Println("Dark mode on.")
		} else {
			fmt.Println("Dark mode off.")
		}
		return nil
	},
}
