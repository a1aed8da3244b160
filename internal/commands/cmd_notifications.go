package commands

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bluelight/internal/core/notify"
	"github.com/hay-kot/bluelight/internal/printer"
	"github.com/hay-kot/bluelight/pkg/iojson"
)

type NotificationsCmd struct {
	flags *Flags

	limit      int
	level      string
	clear      bool
	jsonOutput bool
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags) *NotificationsCmd {
	return &NotificationsCmd{flags: flags}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "notifications",
		Aliases:   []string{"notes"},
		Usage:     "Show toasts from previous sessions",
		UsageText: "bluelight notifications [--limit N] [--level LEVEL] [--clear]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum notifications to show",
				Value:       30,
				Destination: &cmd.limit,
			},
			&cli.StringFlag{
				Name:        "level",
				Usage:       "only show notifications at or above this level (info, success, warning, error)",
				Value:       string(notify.LevelInfo),
				Destination: &cmd.level,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete the notification history",
				Destination: &cmd.clear,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NotificationsCmd) run(ctx context.Context, c *cli.Command) error {
	floor, err := notify.ParseLevel(cmd.level)
	if err != nil {
		return err
	}

	_, notices, closer, err := openHistory(cmd.flags)
	if err != nil {
		return err
	}
	defer closer()

	p := printer.Ctx(ctx)

	if cmd.clear {
		n, err := notices.Count(ctx)
		if err != nil {
			return fmt.Errorf("count notifications: %w", err)
		}
		if err := notices.Clear(ctx); err != nil {
			return fmt.Errorf("clear notifications: %w", err)
		}
		p.Successf("Cleared %d notifications", n)
		return nil
	}

	list, err := notices.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}
	list = slices.DeleteFunc(list, func(n notify.Notification) bool { return !n.Level.AtLeast(floor) })

	if cmd.jsonOutput {
		for _, n := range list {
			if err := iojson.WriteLine(c.Root().Writer, n); err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
		}
		return nil
	}

	if len(list) == 0 {
		p.Infof("No notifications")
		return nil
	}

	for _, n := range list {
		line := fmt.Sprintf("%s  %s", n.CreatedAt.Local().Format(time.DateTime), n.Text())
		switch n.Level {
		case notify.LevelError:
			p.Errorf("%s", line)
		case notify.LevelWarning:
			p.Warnf("%s", line)
		case notify.LevelSuccess:
			p.Successf("%s", line)
		default:
			p.Infof("%s", line)
		}
	}
	return nil
}
