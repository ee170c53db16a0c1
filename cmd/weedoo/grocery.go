package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"weedoo/internal/cloudsync"
	"weedoo/internal/domain"

	"github.com/spf13/cobra"
)

var groceryCmd = &cobra.Command{
	Use:   "grocery",
	Short: "Manage grocery lists",
}

var groceryNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a local grocery list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list := wd.stores.Grocery.CreateList(strings.Join(args, " "), "", nil)
		fmt.Printf("Created list %s: %s\n", shortID(list.ID), list.Title)
		return nil
	},
}

var groceryListsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show all grocery lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		lists := wd.stores.Grocery.Lists()
		if len(lists) == 0 {
			fmt.Println("No lists.")
			return nil
		}
		for _, l := range lists {
			state := "local"
			if l.Synced() {
				state = "synced " + l.AirtableID
			}
			fmt.Printf("%s  %s (%d items, %s)\n", shortID(l.ID), l.Title, len(l.Items), state)
		}
		return nil
	},
}

var groceryShowCmd = &cobra.Command{
	Use:   "show <list>",
	Short: "Show a list's items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		fmt.Println(list.Title)
		for _, item := range list.Items {
			mark := " "
			if item.Checked {
				mark = "x"
			}
			fmt.Printf("[%s] %s  %s\n", mark, shortID(item.ID), item.Text)
		}
		return nil
	},
}

var groceryAddCmd = &cobra.Command{
	Use:   "add <list> <text>",
	Short: "Add an item",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		wd.stores.Grocery.AddItem(list.ID, strings.Join(args[1:], " "))
		return nil
	},
}

var groceryCheckCmd = &cobra.Command{
	Use:   "check <list> <item>",
	Short: "Toggle an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		item, err := findItem(list, args[1])
		if err != nil {
			return err
		}
		wd.stores.Grocery.ToggleItem(list.ID, item.ID)
		return nil
	},
}

var groceryClearCmd = &cobra.Command{
	Use:   "clear <list>",
	Short: "Remove all checked items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		wd.stores.Grocery.ClearChecked(list.ID)
		return nil
	},
}

var groceryRmCmd = &cobra.Command{
	Use:   "rm <list> [item]",
	Short: "Delete a list, or one item from it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			wd.stores.Grocery.DeleteList(list.ID)
			fmt.Printf("Deleted list %s\n", list.Title)
			return nil
		}
		item, err := findItem(list, args[1])
		if err != nil {
			return err
		}
		wd.stores.Grocery.RemoveItem(list.ID, item.ID)
		return nil
	},
}

var grocerySaveCmd = &cobra.Command{
	Use:   "save <list>",
	Short: "Push the list to its cloud row (save-as on first push)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		if list.Synced() {
			if err := wd.sync.SaveList(list.ID); err != nil {
				return err
			}
			fmt.Println("List synced.")
			return nil
		}
		if err := wd.sync.SaveListAs(list.ID); err != nil {
			return err
		}
		saved, _ := wd.stores.Grocery.List(list.ID)
		fmt.Printf("List saved to cloud as %s\n", saved.AirtableID)
		return nil
	},
}

var groceryPullCmd = &cobra.Command{
	Use:   "pull <list>",
	Short: "Pull the cloud row into the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		if err := wd.sync.SyncListDown(list.ID); err != nil {
			return err
		}
		fmt.Println("List updated from cloud.")
		return nil
	},
}

var groceryWatchCmd = &cobra.Command{
	Use:   "watch <list>",
	Short: "Keep the list updated from the cloud until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := findList(args[0])
		if err != nil {
			return err
		}
		if !list.Synced() {
			return cloudsync.ErrListNotSynced
		}

		wd.sync.StartPolling(list.ID)
		defer wd.sync.StopPolling()

		fmt.Printf("Watching %s. Press Ctrl+C to stop.\n", list.Title)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		return nil
	},
}

var groceryImportCmd = &cobra.Command{
	Use:   "import <record-id>",
	Short: "Import a shared cloud list by its row id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := wd.sync.ImportList(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s as %s\n", list.Title, shortID(list.ID))
		return nil
	},
}

func findList(idPrefix string) (*domain.GroceryList, error) {
	var match *domain.GroceryList
	for _, l := range wd.stores.Grocery.Lists() {
		if strings.HasPrefix(l.ID, idPrefix) {
			if match != nil {
				return nil, fmt.Errorf("list id %q is ambiguous", idPrefix)
			}
			match = l
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no list with id %q", idPrefix)
	}
	return match, nil
}

func findItem(list *domain.GroceryList, idPrefix string) (*domain.GroceryItem, error) {
	var match *domain.GroceryItem
	for _, item := range list.Items {
		if strings.HasPrefix(item.ID, idPrefix) {
			if match != nil {
				return nil, fmt.Errorf("item id %q is ambiguous", idPrefix)
			}
			match = item
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no item with id %q", idPrefix)
	}
	return match, nil
}

func init() {
	groceryCmd.AddCommand(groceryNewCmd, groceryListsCmd, groceryShowCmd, groceryAddCmd,
		groceryCheckCmd, groceryClearCmd, groceryRmCmd, grocerySaveCmd, groceryPullCmd,
		groceryWatchCmd, groceryImportCmd)
}
