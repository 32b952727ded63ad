package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmercier/habitflow/internal/notify"
)

type RemindCmd struct {
	Check bool          `help:"Print due warnings once and exit instead of running in the foreground."`
	Poll  time.Duration `help:"How often to check the store for external changes." default:"5s"`
}

func (c *RemindCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	scheduler := notify.NewScheduler(m, notify.NewConsoleNotifier())

	if c.Check {
		n := scheduler.AnnounceDanger()
		if n == 0 {
			fmt.Println("No streaks in danger. All good!")
		}
		return nil
	}

	scheduler.Start()
	defer scheduler.Stop()

	// Reminders depend on up-to-date completions, so follow writes made
	// by other habitflow processes.
	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.WatchStore(watchCtx, c.Poll)

	fmt.Println("Reminder scheduler running. Press Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("\nStopped.")
	return nil
}
