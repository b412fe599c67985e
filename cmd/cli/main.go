// Command cli is the operator console for the point market: inspect and
// adjust balances, view the leaderboard and mint API tokens.
package main

import (
	"fmt"
	"os"

	"github.com/amirasaad/pointmarket/infra/initializer"
	"github.com/amirasaad/pointmarket/pkg/app"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/fatih/color"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("failed to load configuration: %v", err)
		os.Exit(1)
	}
	// keep the console readable; only errors are logged
	cfg.Log.Level = 8
	// the process exits right after the command, so notify before returning
	deps, err := initializer.InitializeDependencies(cfg, initializer.WithSyncEventBus())
	if err != nil {
		color.Red("failed to initialize dependencies: %v", err)
		os.Exit(1)
	}
	if err := execute(os.Stdout, app.New(deps, cfg), os.Args[1:]); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  balance <account_id>")
	fmt.Println("  credit <admin_id> <account_id> <amount>")
	fmt.Println("  debit <admin_id> <account_id> <amount>")
	fmt.Println("  leaderboard [limit]")
	fmt.Println("  token <user_id>")
}
