package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/stash/clientcli"
	"github.com/spf13/cobra"
)

// checkTimeout bounds each request configure makes while checking a profile.
const checkTimeout = 5 * time.Second

var errCancelled = errors.New("cancelled")

var (
	profileDirectory string
	profileSafe      bool
	profileDefault   bool
	profileNoCheck   bool
	showSecrets      bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage server profiles",
	Long: `Manage server profiles in the configuration file.

A profile holds a server endpoint, its upload token, and the upload
defaults (directory and safe mode) used when upload is run without
--directory or --safe. Select one with --profile or STASH_PROFILE.

Configuration is stored in ~/.stash/config.yaml`,
}

var configureSetCmd = &cobra.Command{
	Use:     "set <name>",
	Aliases: []string{"add"},
	Short:   "Create or update a profile",
	Long: `Create or update a profile.

Values passed with --endpoint, --token, --directory and --safe are saved
as given; anything else is prompted for, starting from the profile's
current value. Before saving, the server is contacted and the token is
checked with an authorized request that stores nothing. Use --no-check
to skip that.

Examples:
  stash-cli configure set local
  stash-cli configure set prod -e https://cdn.example.com -t "$TOKEN" -d docs --safe --default`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureSet,
}

var configureCheckCmd = &cobra.Command{
	Use:   "check [name]",
	Short: "Check that a profile's server accepts its token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigureCheck,
}

var configureUseCmd = &cobra.Command{
	Use:     "use <name>",
	Aliases: []string{"set-default"},
	Short:   "Make a profile the default",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureUse,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles; the default is marked with *",
	RunE:  runConfigureList,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile, the default one when no name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigureShow,
}

func init() {
	configureCmd.AddCommand(configureSetCmd, configureCheckCmd, configureUseCmd,
		configureRemoveCmd, configureListCmd, configureShowCmd)

	configureSetCmd.Flags().StringVarP(&profileDirectory, "directory", "d", "", "default upload directory (single segment)")
	configureSetCmd.Flags().BoolVarP(&profileSafe, "safe", "n", false, "refuse to overwrite existing objects by default")
	configureSetCmd.Flags().BoolVar(&profileDefault, "default", false, "make this the default profile")
	configureSetCmd.Flags().BoolVar(&profileNoCheck, "no-check", false, "save without contacting the server")

	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show tokens")
	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show tokens")
}

func runConfigureSet(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	file, err := loadProfiles(path)
	if err != nil {
		return err
	}

	p := file.Profiles[args[0]]
	p.Name = args[0]
	if p.Endpoint == "" {
		p.Endpoint = clientcli.DefaultEndpoint
	}

	if err := editProfile(cmd, &p); err != nil {
		if errors.Is(err, errCancelled) {
			fmt.Println("Cancelled.")
			return nil
		}
		return err
	}

	if !profileNoCheck {
		if checkErr := checkProfile(cmd.Context(), p); checkErr != nil {
			fmt.Printf("Warning: %v\n", checkErr)
			if ok, promptErr := confirm("Save profile anyway", false); promptErr != nil || !ok {
				fmt.Println("Cancelled.")
				return nil //nolint:nilerr // declining to save is not an error
			}
		}
	}

	replaced, err := file.Put(p)
	if err != nil {
		return err
	}
	if profileDefault {
		_ = file.Use(p.Name)
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	verb := "added"
	if replaced {
		verb = "updated"
	}
	fmt.Printf("Profile '%s' %s.\n", p.Name, verb)
	if file.Default == p.Name {
		fmt.Println("It is the default profile.")
	}
	return nil
}

// editProfile applies the set flags to p and prompts for the fields they leave out.
func editProfile(cmd *cobra.Command, p *clientcli.Profile) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("endpoint") {
		p.Endpoint = endpoint
	} else if p.Endpoint, err = ask("Endpoint URL", p.Endpoint, validateEndpoint); err != nil {
		return err
	}
	if err := validateEndpoint(p.Endpoint); err != nil {
		return err
	}
	p.Endpoint = strings.TrimSuffix(p.Endpoint, "/")

	if flags.Changed("token") {
		p.Token = token
	} else {
		label := "Upload token (empty for none)"
		if p.Token != "" {
			label = "Upload token (empty keeps current)"
		}
		tokenPrompt := promptui.Prompt{Label: label, Mask: '*'}
		entered, promptErr := tokenPrompt.Run()
		if promptErr != nil {
			return promptError(promptErr)
		}
		if entered = strings.TrimSpace(entered); entered != "" {
			p.Token = entered
		}
	}

	if flags.Changed("directory") {
		p.Directory = profileDirectory
	} else if p.Directory, err = ask("Default upload directory (empty for root)", p.Directory, clientcli.ValidateDirectory); err != nil {
		return err
	}

	if flags.Changed("safe") {
		p.Safe = profileSafe
	} else if p.Safe, err = confirm("Refuse to overwrite existing objects by default", p.Safe); err != nil {
		return err
	}
	return nil
}

func runConfigureCheck(cmd *cobra.Command, args []string) error {
	file, err := loadProfiles(getConfigPath())
	if err != nil {
		return err
	}

	p, err := file.Lookup(firstArg(args))
	if err != nil {
		return err
	}

	fmt.Printf("Profile '%s'\n", p.Name)
	return checkProfile(cmd.Context(), p)
}

// checkProfile contacts the profile's server and, when the profile has a
// token, asks the server whether that token may upload.
func checkProfile(ctx context.Context, p clientcli.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := clientcli.New(p.Config(), clientcli.WithTimeout(checkTimeout))
	if err != nil {
		return err
	}

	fmt.Printf("Contacting %s... ", p.Endpoint)
	info, err := client.Info(ctx)
	if err != nil {
		fmt.Println("FAILED")
		return fmt.Errorf("server unreachable: %w", err)
	}
	fmt.Printf("OK (%s %s)\n", info.Message, info.Version)

	if p.Token == "" {
		fmt.Println("No upload token; uploads will need --token or STASH_TOKEN.")
		return nil
	}

	fmt.Print("Checking upload token... ")
	switch err := client.CheckToken(ctx); {
	case err == nil:
		fmt.Println("accepted")
		return nil
	case errors.Is(err, clientcli.ErrUnauthorized):
		fmt.Println("REJECTED")
		return errors.New("the server rejected the upload token")
	default:
		fmt.Println("FAILED")
		return fmt.Errorf("token check: %w", err)
	}
}

func runConfigureUse(_ *cobra.Command, args []string) error {
	path := getConfigPath()
	file, err := loadProfiles(path)
	if err != nil {
		return err
	}
	if err := file.Use(args[0]); err != nil {
		return err
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	fmt.Printf("Default profile is now '%s'.\n", args[0])
	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	path := getConfigPath()
	file, err := loadProfiles(path)
	if err != nil {
		return err
	}
	if err := file.Remove(args[0]); err != nil {
		return err
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", args[0])
	if next := file.DefaultName(); next != "" && file.Default == "" {
		fmt.Printf("'%s' is used by default until another is chosen with 'configure use'.\n", next)
	}
	return nil
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	file, err := loadProfiles(getConfigPath())
	if err != nil {
		return err
	}
	if len(file.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Run 'stash-cli configure set <name>' to create one.")
		return nil
	}
	return getFormatter().FormatProfileList(os.Stdout, file.List(), file.DefaultName(), showSecrets)
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	file, err := loadProfiles(getConfigPath())
	if err != nil {
		return err
	}
	p, err := file.Lookup(firstArg(args))
	if err != nil {
		return err
	}
	return getFormatter().FormatProfileShow(os.Stdout, p, p.Name == file.DefaultName(), showSecrets)
}

// loadProfiles reads the profile file at path. A missing file is an empty one.
func loadProfiles(path string) (*clientcli.ProfileFile, error) {
	file, err := clientcli.LoadProfileFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &clientcli.ProfileFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return file, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func validateEndpoint(input string) error {
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

// ask prompts for a line of text, offering current as the default.
func ask(label, current string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{Label: label, Default: current, AllowEdit: true, Validate: validate}
	v, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(v), nil
}

// confirm asks a yes/no question. Declining is not an error.
func confirm(label string, current bool) (bool, error) {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	if current {
		prompt.Default = "y"
	}
	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, promptError(err)
	}
}

// promptError maps Ctrl-C and Ctrl-D to errCancelled.
func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errCancelled
	}
	return err
}
