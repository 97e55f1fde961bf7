package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Run:   runSettingsShow,
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Run:   runSettingsSet,
	}
	set.Flags().String("provider", "", "cloud or local")
	set.Flags().String("model", "", "Cloud model id ("+strings.Join(model.CloudModels, ", ")+" or claude-*)")
	set.Flags().String("user", "", "Your name")
	set.Flags().Bool("onboarded", false, "Mark onboarding as completed")

	cmd.AddCommand(show, set)
	RootCmd.AddCommand(cmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	printSettings(a.ws.Settings())
}

func runSettingsSet(cmd *cobra.Command, args []string) {
	var provider model.Provider
	if cmd.Flags().Changed("provider") {
		v, _ := cmd.Flags().GetString("provider")
		p, err := model.ParseProvider(v)
		if err != nil {
			exitErr("settings", err)
		}
		provider = p
	}
	modelID, _ := cmd.Flags().GetString("model")
	if cmd.Flags().Changed("model") && !validCloudModel(modelID) {
		exitErr("settings", fmt.Errorf("unknown model %q", modelID))
	}

	a := openApp(cmd.Context())
	defer a.Close()

	err := a.ws.UpdateSettings(cmd.Context(), func(s *model.Settings) {
		if provider != "" {
			s.Provider = provider
		}
		if cmd.Flags().Changed("model") {
			s.Model = modelID
		}
		if cmd.Flags().Changed("user") {
			s.UserName, _ = cmd.Flags().GetString("user")
		}
		if cmd.Flags().Changed("onboarded") {
			s.OnboardingComplete, _ = cmd.Flags().GetBool("onboarded")
		}
	})
	if err != nil {
		exitErr("settings", err)
	}

	printSettings(a.ws.Settings())
}

func validCloudModel(id string) bool {
	return slices.Contains(model.CloudModels, id) || strings.HasPrefix(id, "claude-")
}

func printSettings(s model.Settings) {
	if !textOutput() {
		printJSON(s)
		return
	}
	fmt.Printf("%s %s\n", labelStyle.Render("provider:"), s.Provider)
	fmt.Printf("%s %s\n", labelStyle.Render("model:"), s.Model)
	local := s.LocalModelID
	if local == "" {
		local = "(none)"
	}
	fmt.Printf("%s %s\n", labelStyle.Render("local model:"), local)
	if s.UserName != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("user:"), s.UserName)
	}
	fmt.Printf("%s %t\n", labelStyle.Render("onboarded:"), s.OnboardingComplete)
}
