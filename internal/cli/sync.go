package cli

import (
	"context"
	"fmt"
)

func (a *App) Download(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Login first")
		return nil
	}

	res, err := a.sync.Download(ctx, a.session)
	if err != nil {
		printlnFn("Download failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Downloaded: %d events, %d users, %d subscriptions",
		res.Events, res.Users, res.Subscriptions))
	return nil
}

func (a *App) Upload(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Login first")
		return nil
	}

	res, err := a.sync.Upload(ctx, a.session)
	if err != nil {
		printlnFn("Upload failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Uploaded: %d/%d users, %d/%d subscriptions, %d/%d check-ins",
		res.UsersSynced, res.UsersSynced+res.UsersFailed,
		res.SubscriptionsSynced, res.SubscriptionsSynced+res.SubscriptionsFailed,
		res.CheckinsSynced, res.CheckinsSynced+res.CheckinsFailed))
	if res.UsersFailed+res.SubscriptionsFailed+res.CheckinsFailed > 0 {
		printlnFn("Some records stay pending; run upload again when the server recovers")
	}
	return nil
}
