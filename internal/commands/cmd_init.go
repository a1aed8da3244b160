package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/hay-kot/bluelight/internal/commands/init"
)

type InitCmd struct {
	flags   *Flags
	yes     bool
	force   bool
	answers initcmd.ConfigOptions
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags, answers: initcmd.DefaultConfigOptions()}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a bluelight config with an interactive wizard",
		UsageText: "bluelight init [options]",
		Description: `Sets up bluelight for first-time use.

The wizard asks for the Airtable base, the env var holding your token,
the Make.com webhook URLs, the undo window and a theme, then writes
~/.config/bluelight/config.yaml and checks it.

Use --yes to write the values given by flags without prompting.
Use --force to overwrite an existing configuration (a .bak copy is kept).`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept flag values and defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "base-id",
				Usage:       "Airtable base id (appXXXXXXXX)",
				Destination: &cmd.answers.BaseID,
			},
			&cli.StringFlag{
				Name:        "token-env",
				Usage:       "env var holding the Airtable token",
				Value:       cmd.answers.TokenEnv,
				Destination: &cmd.answers.TokenEnv,
			},
			&cli.StringFlag{
				Name:        "approved-webhook",
				Usage:       "webhook URL called when an opportunity is approved",
				Destination: &cmd.answers.OpportunityApproved,
			},
			&cli.StringFlag{
				Name:        "send-webhook",
				Usage:       "webhook URL called when an email is marked sent",
				Destination: &cmd.answers.SendEmail,
			},
			&cli.DurationFlag{
				Name:        "undo-window",
				Usage:       "how long actions can be undone",
				Value:       cmd.answers.UndoWindow,
				Destination: &cmd.answers.UndoWindow,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme",
				Value:       cmd.answers.Theme,
				Destination: &cmd.answers.Theme,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Answers:    cmd.answers,
	})
	return wizard.Run(ctx)
}
