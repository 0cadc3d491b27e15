package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/content-studio/internal/types"
	"github.com/spf13/cobra"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage brand profiles",
	}
	cmd.AddCommand(
		newProfileListCmd(a),
		newProfileCreateCmd(a),
		newProfileUpdateCmd(a),
		newProfileDeleteCmd(a),
		newProfileUseCmd(a),
		newProfileShowCmd(a),
	)
	return cmd
}

// readTrainingData loads questionnaire answers from a JSON file. An empty path yields empty data.
func readTrainingData(path string) (types.TrainingData, error) {
	var data types.TrainingData
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("failed to read training data: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to parse training data: %w", err)
	}
	return data, nil
}

func newProfileListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles; the active one is marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.profiles(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			state := store.Snapshot()
			active := ""
			if state.ActiveProfileID != nil {
				active = *state.ActiveProfileID
			}
			printer(cmd).PrintProfiles(state.Profiles, active)
			return nil
		},
	}
}

func newProfileCreateCmd(a *app) *cobra.Command {
	var name, dataPath string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readTrainingData(dataPath)
			if err != nil {
				return err
			}
			store, closeStore, err := a.profiles(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			p, err := store.Create(cmd.Context(), name, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Perfil creado: %s (%s)\n", p.Name, p.ID)
			if missing := p.Data.Missing(); len(missing) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Preguntas sin responder: %d\n", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	cmd.Flags().StringVar(&dataPath, "data", "", "Path to a JSON file with the questionnaire answers")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var name, dataPath string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a profile or replace its questionnaire answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && dataPath == "" {
				return errors.New("nothing to update: pass --name and/or --data")
			}
			store, closeStore, err := a.profiles(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			current, err := store.Get(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = current.Name
			}
			data := current.Data
			if dataPath != "" {
				if data, err = readTrainingData(dataPath); err != nil {
					return err
				}
			}
			if err := store.Update(cmd.Context(), args[0], name, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Perfil actualizado: %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New profile name")
	cmd.Flags().StringVar(&dataPath, "data", "", "Path to a JSON file with the questionnaire answers")
	return cmd
}

func newProfileDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.profiles(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Perfil eliminado: %s\n", args[0])
			if p, ok := store.Active(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Perfil activo: %s (%s)\n", p.Name, p.ID)
			}
			return nil
		},
	}
}

func newProfileUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.profiles(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.SetActive(cmd.Context(), args[0]); err != nil {
				return err
			}
			p, _ := store.Active()
			fmt.Fprintf(cmd.OutOrStdout(), "Perfil activo: %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a profile (the active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.profiles(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			var p types.Profile
			if len(args) == 1 {
				if p, err = store.Get(args[0]); err != nil {
					return err
				}
			} else {
				var ok bool
				if p, ok = store.Active(); !ok {
					return errNoActiveProfile
				}
			}
			printer(cmd).PrintProfile(p)
			return nil
		},
	}
}
