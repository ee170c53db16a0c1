package main

import (
	"fmt"
	"log"
	"os"

	"weedoo/internal/airtable"
	"weedoo/internal/cloudsync"
	"weedoo/internal/config"
	"weedoo/internal/session"
	"weedoo/internal/storage"
	"weedoo/internal/store"

	"github.com/spf13/cobra"
)

// app is the composition root: every store is constructed once here and
// handed to the coordinator and the commands by reference.
type app struct {
	cfg     *config.Config
	db      storage.Store
	session *session.Store
	stores  cloudsync.Stores
	sync    *cloudsync.Coordinator
}

var wd *app

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	tasks, err := store.NewTaskStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	kanban, err := store.NewKanbanStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	notes, err := store.NewNotesStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	calendar, err := store.NewCalendarStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	theme, err := store.NewThemeStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	grocery, err := store.NewGroceryStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	stores := cloudsync.Stores{
		Tasks:    tasks,
		Kanban:   kanban,
		Notes:    notes,
		Calendar: calendar,
		Theme:    theme,
		Grocery:  grocery,
	}

	coordinator := cloudsync.New(airtable.NewClient(cfg.Airtable.ProxyURL), sess, stores, cfg.Sync)
	coordinator.Start()

	return &app{cfg: cfg, db: db, session: sess, stores: stores, sync: coordinator}, nil
}

// close cancels pending debounce timers and pushes once synchronously: a CLI
// process exits long before a debounce window elapses.
func (a *app) close() {
	a.sync.Stop()
	if a.session.IsLoggedIn() {
		if err := a.sync.ForceSync(); err != nil {
			log.Printf("Cloud sync on exit failed: %v", err)
		}
	}
	a.db.Close()
}

var rootCmd = &cobra.Command{
	Use:          "weedoo",
	Short:        "Local-first productivity hub: tasks, kanban, notes, groceries, calendar",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		wd, err = openApp()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if wd != nil {
			wd.close()
		}
	},
}

func main() {
	rootCmd.AddCommand(
		codeCmd, loginCmd, logoutCmd, whoamiCmd,
		taskCmd, kanbanCmd, noteCmd, calCmd, groceryCmd,
		agendaCmd, syncCmd, themeCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
