package cli

import (
	"fmt"
)

type SettingsGetCmd struct{}

func (c *SettingsGetCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	s := m.Settings()

	fmt.Printf("  theme:              %s\n", s.Theme)
	fmt.Printf("  notifications:      %t\n", s.Notifications)
	fmt.Printf("  sounds:             %t\n", s.Sounds)
	fmt.Printf("  dailyReminderTime:  %s\n", s.DailyReminderTime)
	fmt.Printf("  weekStartsOn:       %s\n", s.WeekStartsOn)
	fmt.Printf("  language:           %s\n", s.Language)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key (theme, notifications, sounds, dailyReminderTime, weekStartsOn, language)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	if err := m.UpdateSetting(c.Key, c.Value); err != nil {
		return err
	}
	fmt.Printf("✓ %s = %s\n", c.Key, c.Value)
	return nil
}

type SettingsResetCmd struct {
	Yes bool `short:"y" help:"Skip confirmation."`
}

func (c *SettingsResetCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	if !confirm("Reset all settings to defaults?", c.Yes) {
		fmt.Println("Reset cancelled.")
		return nil
	}
	if err := m.ResetSettings(); err != nil {
		return err
	}
	fmt.Println("✓ Settings reset to defaults.")
	return nil
}
