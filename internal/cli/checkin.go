package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmoura/eventgate/internal/services"
)

func (a *App) QuickCheckin(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Participant name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Participant email", os.Stdout)
	if err != nil {
		return err
	}
	eventID, err := GetInt(a.reader, "Event id", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	res, err := a.checkin.QuickCheckin(ctx, services.QuickCheckinRequest{
		Name: name, Email: email, EventServerID: eventID,
	})
	if err != nil {
		printlnFn("Check-in failed:", err)
		return err
	}

	if res.AlreadyCheckedIn {
		printlnFn("Already checked in; nothing changed")
		return nil
	}
	printlnFn(fmt.Sprintf("Checked in (subscription %d)", res.SubscriptionLocalID))
	if res.TemporarySecret != "" {
		printlnFn("Temporary access code (write it down, shown once):", res.TemporarySecret)
	}
	return nil
}

func subscriptionArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: <command> <subscription id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subscription id %q", args[0])
	}
	return id, nil
}

func (a *App) CancelCheckin(ctx context.Context, args []string) error {
	id, err := subscriptionArg(args)
	if err != nil {
		printlnFn(err)
		return err
	}

	if err := a.checkin.CancelCheckin(ctx, id); err != nil {
		printlnFn("Cancel failed:", err)
		return err
	}
	printlnFn("Check-in cancelled")
	return nil
}

func (a *App) CancelSubscription(ctx context.Context, args []string) error {
	id, err := subscriptionArg(args)
	if err != nil {
		printlnFn(err)
		return err
	}

	if err := a.checkin.CancelSubscription(ctx, id); err != nil {
		printlnFn("Cancel failed:", err)
		return err
	}
	printlnFn("Subscription cancelled")
	return nil
}
