package main

import (
	"fmt"

	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/types"
	"github.com/spf13/cobra"
)

func newScriptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Generate video scripts",
	}
	cmd.AddCommand(newScriptGenerateCmd(a))
	return cmd
}

func newScriptGenerateCmd(a *app) *cobra.Command {
	var (
		hook     string
		platform string
		duration int
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a script for a hook with the active profile's voice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := types.VideoPlatform(platform)
			if !p.IsValid() {
				return fmt.Errorf("invalid platform %q", platform)
			}
			if duration == 0 {
				duration = types.DefaultDuration(p)
			}
			if !types.ValidDuration(p, duration) {
				return fmt.Errorf("duration %ds is not offered for %s: choose one of %v", duration, p, types.PlatformDurations[p])
			}
			ctx := cmd.Context()

			store, closeStore, err := a.profiles(ctx)
			if err != nil {
				return err
			}
			defer closeStore()
			active, ok := store.Active()
			if !ok {
				return errNoActiveProfile
			}

			gw, closeGW, err := a.gateway(ctx)
			if err != nil {
				return err
			}
			defer closeGW()

			script, err := gw.GenerateScript(ctx, gateway.ScriptRequest{
				TrainingData:      active.Data,
				Hook:              hook,
				DurationInSeconds: duration,
			})
			if err != nil {
				return err
			}
			printer(cmd).PrintScript(hook, script)

			if save {
				saved, _, err := store.SaveScript(ctx, types.ScriptEntry{
					Hook:     hook,
					Script:   script,
					Platform: p,
					Duration: duration,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Guion guardado: %s\n", saved.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hook, "hook", "", "The hook that opens the video")
	cmd.Flags().StringVar(&platform, "platform", string(types.PlatformInstagramReels), "Instagram Reels or TikTok")
	cmd.Flags().IntVar(&duration, "duration", 0, "Video length in seconds (default: the platform's shortest)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the script to the active profile")
	_ = cmd.MarkFlagRequired("hook")
	return cmd
}

func newScriptsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "Manage saved scripts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the active profile's saved scripts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, closeStore, err := a.profiles(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()

				active, ok := store.Active()
				if !ok {
					return errNoActiveProfile
				}
				printer(cmd).PrintSavedScripts(active.SavedScripts)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a saved script",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, closeStore, err := a.profiles(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()

				if err := store.DeleteScript(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Guion eliminado: %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
