package main

import (
	"fmt"
	"strings"

	"weedoo/internal/domain"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Create a note (title derived from the first line)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note := wd.stores.Notes.Add(strings.Join(args, " "))
		// A note that stays empty is provisional and silently dropped.
		if wd.stores.Notes.DiscardIfEmpty(note.ID) {
			fmt.Println("Empty note discarded.")
			return nil
		}
		fmt.Printf("Added note %s: %s\n", shortID(note.ID), note.Title)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := wd.stores.Notes.Notes()
		if len(notes) == 0 {
			fmt.Println("No notes.")
			return nil
		}
		for _, n := range notes {
			fmt.Printf("%s  %s (updated %s)\n", shortID(n.ID), n.Title, n.UpdatedAt)
		}
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := findNote(args[0])
		if err != nil {
			return err
		}
		fmt.Println(note.Title)
		fmt.Println()
		fmt.Println(note.Content)
		return nil
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <id> <content>",
	Short: "Replace a note's content",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := findNote(args[0])
		if err != nil {
			return err
		}
		wd.stores.Notes.Update(note.ID, strings.Join(args[1:], " "))
		return nil
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := findNote(args[0])
		if err != nil {
			return err
		}
		wd.stores.Notes.Delete(note.ID)
		return nil
	},
}

func findNote(idPrefix string) (*domain.Note, error) {
	var match *domain.Note
	for _, n := range wd.stores.Notes.Notes() {
		if strings.HasPrefix(n.ID, idPrefix) {
			if match != nil {
				return nil, fmt.Errorf("note id %q is ambiguous", idPrefix)
			}
			match = n
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no note with id %q", idPrefix)
	}
	return match, nil
}

func init() {
	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteShowCmd, noteEditCmd, noteRmCmd)
}
