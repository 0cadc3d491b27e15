package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/types"
	"github.com/spf13/cobra"
)

var errNoActiveProfile = errors.New("no active profile: create one with 'profile create' or pick one with 'profile use'")

func newHooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Generate and manage saved hooks",
	}
	cmd.AddCommand(newHooksGenerateCmd(a), newHooksListCmd(a), newHooksDeleteCmd(a))
	return cmd
}

func newHooksGenerateCmd(a *app) *cobra.Command {
	var (
		category string
		quantity int
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate hooks for the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := types.HookCategory(category)
			if !cat.IsValid() {
				return fmt.Errorf("invalid category %q: expected one of %v", category, types.HookCategories)
			}
			if quantity < types.MinHookQuantity || quantity > types.MaxHookQuantity {
				return fmt.Errorf("quantity must be between %d and %d", types.MinHookQuantity, types.MaxHookQuantity)
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

			hooks, err := gw.GenerateHooks(ctx, gateway.HooksRequest{
				TrainingData: active.Data,
				Category:     cat,
				Quantity:     quantity,
			})
			if err != nil {
				return err
			}
			printer(cmd).PrintHooks(cat, hooks)

			if save {
				saved := 0
				for _, h := range hooks {
					if _, ok := store.SaveHook(ctx, h); ok {
						saved++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Hooks guardados: %d\n", saved)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", string(types.CategoryPersonalLife), "VIDA PERSONAL, OPINIÓN or EDUCACIONAL")
	cmd.Flags().IntVar(&quantity, "quantity", types.DefaultHookQuantity, "Number of hooks to generate")
	cmd.Flags().BoolVar(&save, "save", false, "Save the generated hooks to the active profile")
	return cmd
}

func newHooksListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the active profile's saved hooks",
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
			printer(cmd).PrintSavedHooks(active.SavedHooks)
			return nil
		},
	}
}

func newHooksDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved hook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.profiles(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.DeleteHook(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hook eliminado: %s\n", args[0])
			return nil
		},
	}
}
