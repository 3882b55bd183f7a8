// ABOUTME: CLI commands for user profiles: name, partner, device token, and time zone.
// ABOUTME: Profiles drive task scheduling and partner alert delivery.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/output"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/spf13/cobra"
)

var (
	userName        string
	userPairedWith  string
	userDeviceToken string
	userTimeZone    string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user profiles",
	Long: `Manage user profiles.

Every profile gets a daily task from 'bandwidth tasks schedule'. A profile
paired with another user alerts that user when its score runs low. The
special ID "me" refers to the bound identity (user_id in config).`,
}

var userSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Create or update a profile",
	Long: `Create or update a profile. Only the flags you pass are changed.

Examples:
  bandwidth user set me --name "Sam" --timezone America/Chicago
  bandwidth user set me --paired-with alex
  bandwidth user set alex --name "Alex" --device-token abc123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveUserID(cmd, args[0])
		if err != nil {
			return err
		}

		u, err := svc.repo.GetUser(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			u = &models.UserProfile{ID: id}
		} else if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			u.Name = userName
		}
		if flags.Changed("paired-with") {
			u.PairedWith = userPairedWith
		}
		if flags.Changed("device-token") {
			u.DeviceToken = userDeviceToken
		}
		if flags.Changed("timezone") {
			loc, err := time.LoadLocation(userTimeZone)
			if err != nil {
				return fmt.Errorf("unknown time zone: %s", userTimeZone)
			}
			u.TimeZone = loc.String()
		}
		if u.TimeZone != "" {
			if loc, err := time.LoadLocation(u.TimeZone); err == nil {
				_, u.UTCOffsetSeconds = svc.clock.Now().In(loc).Zone()
			}
		}
		u.UpdatedAt = svc.clock.Now()

		if err := svc.repo.UpsertUser(ctx, u); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		color.Green("✓ Saved user %s", u.ID)
		printUser(u)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a profile (default: you)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := "me"
		if len(args) == 1 {
			arg = args[0]
		}
		id, err := resolveUserID(cmd, arg)
		if err != nil {
			return err
		}
		u, err := svc.repo.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		printUser(u)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := svc.repo.ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}
		tbl := output.NewTable("ID", "NAME", "PAIRED WITH", "TIME ZONE", "PUSH")
		for _, u := range users {
			push := "no"
			if u.DeviceToken != "" {
				push = "yes"
			}
			tbl.AddRow(u.ID, u.Name, u.PairedWith, u.TimeZone, push)
		}
		tbl.Print()
		return nil
	},
}

func resolveUserID(cmd *cobra.Command, id string) (string, error) {
	if id != "me" {
		return id, nil
	}
	return svc.userID(cmd.Context())
}

func printUser(u *models.UserProfile) {
	fmt.Println(output.KV("ID", u.ID))
	fmt.Println(output.KV("Name", u.Name))
	fmt.Println(output.KV("Paired with", u.PairedWith))
	fmt.Println(output.KV("Time zone", u.TimeZone))
	fmt.Println(output.KV("UTC offset", fmt.Sprintf("%+ds", u.UTCOffsetSeconds)))
	if u.DeviceToken != "" {
		fmt.Println(output.KV("Device token", truncate(u.DeviceToken, 16)))
	}
}

func init() {
	userSetCmd.Flags().StringVar(&userName, "name", "", "display name shown to your partner")
	userSetCmd.Flags().StringVar(&userPairedWith, "paired-with", "", "partner user ID (empty to unpair)")
	userSetCmd.Flags().StringVar(&userDeviceToken, "device-token", "", "push token for notifications")
	userSetCmd.Flags().StringVar(&userTimeZone, "timezone", "", "IANA time zone, e.g. Europe/Berlin")

	userCmd.AddCommand(userSetCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(userCmd)
}
