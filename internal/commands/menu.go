package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/scilla-cli/scilla/internal/log"
	"github.com/scilla-cli/scilla/internal/ui"
)

// JournalLimit is the number of rows shown by the transaction log menu.
const JournalLimit = 20

// Section is an entry of the top-level menu.
type Section int

const (
	SectionAccount Section = iota
	SectionCluster
	SectionStake
	SectionVote
	SectionJournal
	SectionConfig
	SectionExit
)

// Sections lists the top-level menu in display order.
var Sections = []Section{
	SectionAccount, SectionCluster, SectionStake, SectionVote,
	SectionJournal, SectionConfig, SectionExit,
}

func (s Section) String() string {
	switch s {
	case SectionAccount:
		return "Account"
	case SectionCluster:
		return "Cluster"
	case SectionStake:
		return "Stake"
	case SectionVote:
		return "Vote"
	case SectionJournal:
		return "Transaction log"
	case SectionConfig:
		return "Config"
	case SectionExit:
		return "Exit"
	}
	return "unknown"
}

// Command is a menu entry that can run.
type Command interface {
	fmt.Stringer
	Run(ctx context.Context, c *Context) (Exec, error)
}

// Run is the interactive loop. It returns when the user exits, input ends
// or ctx is cancelled.
func Run(ctx context.Context, c *Context) error {
	labels := make([]string, len(Sections))
	for i, s := range Sections {
		labels[i] = s.String()
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		idx, err := c.UI.Prompter.Select("scilla: what would you like to do?", labels)
		if errors.Is(err, ui.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		exec := Process
		switch Sections[idx] {
		case SectionAccount:
			exec, err = submenu(ctx, c, "Account", AccountCommands)
		case SectionCluster:
			exec, err = submenu(ctx, c, "Cluster", ClusterCommands)
		case SectionStake:
			exec, err = submenu(ctx, c, "Stake", StakeCommands)
		case SectionVote:
			exec, err = submenu(ctx, c, "Vote", VoteCommands)
		case SectionJournal:
			if err := ShowJournal(c, JournalLimit); err != nil {
				c.UI.Error(err)
			}
		case SectionConfig:
			if err := ShowConfig(c); err != nil {
				c.UI.Error(err)
			}
		case SectionExit:
			return nil
		}
		if err != nil {
			return err
		}
		if exec == Exit {
			return nil
		}
	}
}

// submenu loops over one section's commands until the user goes back.
// Command errors are shown and the menu is offered again.
func submenu[T Command](ctx context.Context, c *Context, title string, cmds []T) (Exec, error) {
	labels := make([]string, len(cmds))
	for i, cmd := range cmds {
		labels[i] = cmd.String()
	}

	for {
		if ctx.Err() != nil {
			return Exit, nil
		}
		idx, err := c.UI.Prompter.Select(title, labels)
		if errors.Is(err, ui.ErrAborted) {
			return GoBack, nil
		}
		if err != nil {
			return Exit, err
		}

		cmd := cmds[idx]
		exec, err := cmd.Run(ctx, c)
		if err != nil {
			if errors.Is(err, ui.ErrAborted) {
				continue
			}
			log.UI.Debug().Err(err).Str("command", cmd.String()).Msg("Command failed")
			c.UI.Error(err)
			continue
		}
		if exec != Process {
			return exec, nil
		}
	}
}
