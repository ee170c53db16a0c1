package main

import (
	"fmt"
	"strings"

	"weedoo/internal/domain"

	"github.com/spf13/cobra"
)

var calCmd = &cobra.Command{
	Use:   "cal",
	Short: "Manage calendar events",
}

var (
	calTime  string
	calDesc  string
	calColor string
)

var calAddCmd = &cobra.Command{
	Use:   "add <date> <title>",
	Short: "Add an event on a day (YYYY-MM-DD)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		event := wd.stores.Calendar.AddEvent(strings.Join(args[1:], " "), args[0], calTime, calDesc, calColor)
		fmt.Printf("Added event %s on %s\n", shortID(event.ID), event.Date)
		return nil
	},
}

var calListCmd = &cobra.Command{
	Use:   "list [date]",
	Short: "List events, optionally for one day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var events []*domain.CalendarEvent
		if len(args) == 1 {
			events = wd.stores.Calendar.EventsForDate(args[0])
		} else {
			events = wd.stores.Calendar.Events()
		}
		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}
		for _, e := range events {
			line := fmt.Sprintf("%s  %s %s", shortID(e.ID), e.Date, e.Title)
			if e.Time != "" {
				line = fmt.Sprintf("%s  %s %s %s", shortID(e.ID), e.Date, e.Time, e.Title)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var calRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := findEvent(args[0])
		if err != nil {
			return err
		}
		wd.stores.Calendar.DeleteEvent(event.ID)
		return nil
	},
}

func findEvent(idPrefix string) (*domain.CalendarEvent, error) {
	var match *domain.CalendarEvent
	for _, e := range wd.stores.Calendar.Events() {
		if strings.HasPrefix(e.ID, idPrefix) {
			if match != nil {
				return nil, fmt.Errorf("event id %q is ambiguous", idPrefix)
			}
			match = e
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no event with id %q", idPrefix)
	}
	return match, nil
}

func init() {
	calAddCmd.Flags().StringVar(&calTime, "time", "", "time of day, HH:MM")
	calAddCmd.Flags().StringVar(&calDesc, "desc", "", "description")
	calAddCmd.Flags().StringVar(&calColor, "color", "bg-wd-primary", "color tag")

	calCmd.AddCommand(calAddCmd, calListCmd, calRmCmd)
}
