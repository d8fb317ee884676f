package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmoura/eventgate/internal/services"
)

func (a *App) AddUser(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	secret, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.local.CreateUser(ctx, services.CreateUserRequest{Name: name, Email: email, Secret: secret})
	if err != nil {
		printlnFn("Create failed:", err)
		return err
	}
	printlnFn(fmt.Sprintf("User created (local id %d)", id))
	return nil
}

func (a *App) AddSubscription(ctx context.Context) error {
	userID, err := GetInt(a.reader, "User local id", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	eventID, err := GetInt(a.reader, "Event id", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	id, err := a.local.CreateSubscription(ctx, services.CreateSubscriptionRequest{
		UserLocalID: userID, EventServerID: eventID,
	})
	if err != nil {
		printlnFn("Create failed:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Subscription created (local id %d)", id))
	return nil
}

func (a *App) AddCheckin(ctx context.Context) error {
	subID, err := GetInt(a.reader, "Subscription local id", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	id, err := a.local.CreateCheckin(ctx, services.CreateCheckinRequest{SubscriptionLocalID: subID})
	if err != nil {
		printlnFn("Create failed:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Check-in created (local id %d)", id))
	return nil
}

func (a *App) List(ctx context.Context) error {
	data, err := a.local.FetchLocalData(ctx)
	if err != nil {
		printlnFn("List failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Events (%d):", len(data.Events)))
	for _, e := range data.Events {
		printlnFn(fmt.Sprintf("  [%d] %s at %s", e.ServerID, e.Name, e.StartsAt.Format("2006-01-02 15:04")))
	}

	printlnFn(fmt.Sprintf("Users (%d):", len(data.Users)))
	for _, u := range data.Users {
		mark := "pending"
		if u.Synced {
			mark = "synced"
		}
		printlnFn(fmt.Sprintf("  [%d] %s <%s> (%s)", u.LocalID, u.Name, u.Email, mark))
	}

	printlnFn(fmt.Sprintf("Subscriptions (%d):", len(data.Subscriptions)))
	for _, s := range data.Subscriptions {
		checked := ""
		if s.CheckedIn {
			checked = ", checked in"
		}
		printlnFn(fmt.Sprintf("  [%d] %s -> %s%s", s.LocalID, s.UserEmail, s.EventName, checked))
	}
	return nil
}
