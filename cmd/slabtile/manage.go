package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabTile/internal/model"
	"github.com/piwi3910/SlabTile/internal/project"
)

func templateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "List and edit laying pattern templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the laying pattern templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := project.LoadTemplates(g.templatesPath())
			if err != nil {
				return err
			}
			printTemplates(cmd.OutOrStdout(), store)
			return nil
		},
	})

	var bias, angle, seam float64
	var description string
	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(g.templatesPath())
			if err != nil {
				return err
			}
			if store.FindByName(args[0]) != nil {
				return fmt.Errorf("template %q already exists", args[0])
			}
			t := model.NewLayoutTemplate(args[0], description, bias, angle, seam)
			store.Add(t)
			if err := project.SaveTemplates(g.templatesPath(), store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added template %s (%s)\n", t.Name, t.ID)
			return nil
		},
	}
	add.Flags().Float64Var(&bias, "bias", 0, "Row shift as a fraction of the tile pitch")
	add.Flags().Float64Var(&angle, "angle", 0, "Grid rotation in degrees")
	add.Flags().Float64Var(&seam, "seam", -1, "Seam width, negative keeps the current seam")
	add.Flags().StringVar(&description, "description", "", "Template description")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [id]",
		Short: "Remove a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(g.templatesPath())
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("no template with ID %q", args[0])
			}
			return project.SaveTemplates(g.templatesPath(), store)
		},
	})

	return cmd
}

func profileCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage GCode profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in and custom GCode profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			custom, err := project.LoadCustomProfiles(g.profilesPath())
			if err != nil {
				return err
			}
			printProfiles(cmd.OutOrStdout(), custom)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import [profile.json]",
		Short: "Add a custom GCode profile from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := project.ImportProfile(args[0])
			if err != nil {
				return err
			}
			custom, err := project.LoadCustomProfiles(g.profilesPath())
			if err != nil {
				return err
			}
			replaced := false
			for i := range custom {
				if custom[i].Name == profile.Name {
					custom[i] = profile
					replaced = true
				}
			}
			if !replaced {
				custom = append(custom, profile)
			}
			if err := project.SaveCustomProfiles(g.profilesPath(), custom); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %s\n", profile.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export [name] [profile.json]",
		Short: "Write a GCode profile to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			custom, err := project.LoadCustomProfiles(g.profilesPath())
			if err != nil {
				return err
			}
			profile := model.GetProfile(args[0], custom...)
			if profile.Name != args[0] {
				return fmt.Errorf("unknown profile %q", args[0])
			}
			return project.ExportProfile(args[1], profile)
		},
	})

	return cmd
}

func backupCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [backup.json]",
		Short: "Write config, templates and custom profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(g.configPath)
			if err != nil {
				return err
			}
			store, err := project.LoadTemplates(g.templatesPath())
			if err != nil {
				return err
			}
			custom, err := project.LoadCustomProfiles(g.profilesPath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, store, custom); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
			return nil
		},
	}
}

func restoreCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [backup.json]",
		Short: "Restore config, templates and custom profiles from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(g.configPath, backup.Config); err != nil {
				return err
			}
			if backup.Templates != nil {
				if err := project.SaveTemplates(g.templatesPath(), *backup.Templates); err != nil {
					return err
				}
			}
			if backup.Profiles != nil {
				if err := project.SaveCustomProfiles(g.profilesPath(), backup.Profiles); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s (version %s)\n", args[0], backup.Version)
			return nil
		},
	}
}

func printProfiles(w io.Writer, custom []model.GCodeProfile) {
	for _, name := range model.GetProfileNames() {
		p := model.GetProfile(name)
		fmt.Fprintf(w, "%-12s built-in  %s\n", p.Name, p.Description)
	}
	for _, p := range custom {
		fmt.Fprintf(w, "%-12s custom    %s\n", p.Name, p.Description)
	}
}
