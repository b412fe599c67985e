package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/amirasaad/pointmarket/pkg/app"
	"github.com/fatih/color"
)

var errUsage = errors.New("invalid arguments, run without arguments for usage")

func execute(out io.Writer, a *app.App, args []string) error {
	ctx := context.Background()
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	switch args[0] {
	case "balance":
		if len(args) != 2 {
			return errUsage
		}
		balance, err := a.LedgerService.GetBalance(ctx, args[1])
		if err != nil {
			return fmt.Errorf("error fetching balance: %w", err)
		}
		fmt.Fprintf(out, "%s has %s points\n", bold(args[1]), green(balance))
	case "credit", "debit":
		if len(args) != 4 {
			return errUsage
		}
		amount, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[3], err)
		}
		op := a.LedgerService.AdminCredit
		verb := "Added"
		if args[0] == "debit" {
			op = a.LedgerService.AdminDebit
			verb = "Removed"
		}
		balance, err := op(ctx, args[1], args[2], amount)
		if err != nil {
			return fmt.Errorf("error adjusting balance: %w", err)
		}
		fmt.Fprintf(out, "%s %d points for %s. New balance: %s\n", verb, amount, bold(args[2]), green(balance))
	case "leaderboard":
		limit := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid limit %q", args[1])
			}
			limit = n
		}
		entries, err := a.LeaderboardService.Top(ctx, limit)
		if err != nil {
			return fmt.Errorf("error loading leaderboard: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No accounts yet.")
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%3d. %s %s\n", e.Rank, bold(e.AccountID), green(e.Points))
		}
	case "token":
		if len(args) != 2 {
			return errUsage
		}
		token, err := a.AuthService.GenerateToken(args[1])
		if err != nil {
			return fmt.Errorf("error generating token: %w", err)
		}
		fmt.Fprintln(out, token)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
