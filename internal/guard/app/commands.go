// Package app wires the gwd subcommands: block, unblock, and list.
package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"gwd/internal/guard/common/clock"
	"gwd/internal/guard/common/log"
	"gwd/internal/guard/config"
	"gwd/internal/guard/hosts"
	"gwd/internal/guard/ledger"
	"gwd/internal/guard/platform"
)

// Deps carries everything the subcommands need. Out receives user-facing
// messages; diagnostics go through Logger.
type Deps struct {
	Config  *config.AppConfig
	Locator *hosts.Locator
	Editor  *hosts.Editor
	Logger  log.Logger
	Clock   clock.Clock
	Out     io.Writer

	// CheckPrivileges is swappable for tests; defaults to the platform check.
	CheckPrivileges func(hostsPath string, logger log.Logger) error
}

func (d *Deps) checkPrivileges() error {
	path, err := d.Locator.Resolve()
	if err != nil {
		return err
	}
	check := d.CheckPrivileges
	if check == nil {
		check = platform.CheckPrivileges
	}
	return check(path, d.Logger)
}

// openLedger opens the history journal. The journal is advisory: on failure
// it logs a warning and returns nil, and callers carry on without history.
func (d *Deps) openLedger() *ledger.Store {
	st, err := ledger.Open(d.Config.LedgerPath, d.Clock)
	if err != nil {
		d.Logger.Warn(map[string]any{"path": d.Config.LedgerPath, "error": err.Error()}, "block history unavailable")
		return nil
	}
	return st
}

func (d *Deps) record(domain, action string) {
	st := d.openLedger()
	if st == nil {
		return
	}
	defer st.Close()
	if err := st.Record(domain, action); err != nil {
		d.Logger.Warn(map[string]any{"domain": domain, "error": err.Error()}, "failed to record history event")
	}
}

func NewBlockCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "block [domain]",
		Short: "Block a website by adding entries to the hosts file",
		Long:  "Blocks a website for the bare domain and its 'www.' variant (e.g. 'gwd block example.com' blocks example.com and www.example.com).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.checkPrivileges(); err != nil {
				return err
			}
			fmt.Fprintf(d.Out, "Attempting to block '%s'...\n", args[0])
			res, err := d.Editor.Block(args[0])
			if err != nil {
				return err
			}
			for _, name := range res.Existing {
				fmt.Fprintf(d.Out, "Block entry for %s already exists.\n", name)
			}
			for _, name := range res.Added {
				fmt.Fprintf(d.Out, "Adding entry for: %s\n", name)
			}
			if len(res.Added) == 0 {
				fmt.Fprintf(d.Out, "'%s' already configured for blocking.\n", res.Domain)
				return nil
			}
			fmt.Fprintf(d.Out, "Successfully updated hosts file to block '%s'.\n", res.Domain)
			printFlushHint(d.Out)
			d.record(string(res.Domain), ledger.ActionBlock)
			return nil
		},
	}
}

func NewUnblockCommand(d *Deps) *cobra.Command {
	var challengeLength int

	cmd := &cobra.Command{
		Use:   "unblock [domain]",
		Short: "Unblock a website after a typing challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.checkPrivileges(); err != nil {
				return err
			}
			fmt.Fprintf(d.Out, "Attempting to unblock '%s'...\n", args[0])
			res, err := d.Editor.Unblock(args[0], challengeLength)
			if err != nil {
				return err
			}
			if res.Removed == 0 {
				fmt.Fprintf(d.Out, "No active blocking entries found for '%s'.\n", res.Domain)
				return nil
			}
			fmt.Fprintf(d.Out, "Successfully removed blocking entries for '%s'.\n", res.Domain)
			printFlushHint(d.Out)
			d.record(string(res.Domain), ledger.ActionUnblock)
			return nil
		},
	}

	cmd.Flags().IntVar(&challengeLength, "challenge-length", d.Config.ChallengeLength,
		"number of random words required for the unblock challenge; 0 disables it")
	return cmd
}

func NewListCommand(d *Deps) *cobra.Command {
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List websites currently blocked by gwd",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showHistory {
				return d.printHistory()
			}

			domains, err := d.Editor.List()
			if err != nil {
				return err
			}
			if len(domains) == 0 {
				fmt.Fprintln(d.Out, "No websites are currently blocked.")
				return nil
			}

			st := d.openLedger()
			if st != nil {
				defer st.Close()
			}

			fmt.Fprintln(d.Out, "Blocked websites:")
			for _, name := range domains {
				if st != nil {
					if since, ok, err := st.BlockedSince(string(name)); err == nil && ok {
						fmt.Fprintf(d.Out, "  - %s (blocked since %s)\n", name, since.Format("2006-01-02 15:04"))
						continue
					}
				}
				fmt.Fprintf(d.Out, "  - %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "show the full block/unblock history instead")
	return cmd
}

func (d *Deps) printHistory() error {
	st := d.openLedger()
	if st == nil {
		return fmt.Errorf("block history unavailable at %s", d.Config.LedgerPath)
	}
	defer st.Close()

	events, err := st.History()
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(d.Out, "No history recorded.")
		return nil
	}
	for _, ev := range events {
		fmt.Fprintf(d.Out, "%s  %-8s %s\n", ev.At.Format("2006-01-02 15:04:05"), ev.Action, ev.Domain)
	}
	return nil
}

func printFlushHint(out io.Writer) {
	switch runtime.GOOS {
	case "windows":
		fmt.Fprintln(out, "Run 'ipconfig /flushdns' if the change doesn't take effect immediately.")
	case "darwin", "linux":
		fmt.Fprintln(out, "DNS cache might need flushing (e.g. 'resolvectl flush-caches' or 'dscacheutil -flushcache').")
	}
}
