package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	verbose    bool

	getProfileNumber int
	setProfileNumber int
	setInputFile     string
)

var rootCmd = &cobra.Command{
	Use:   "lamzu-cfg",
	Short: "LAMZU mouse configuration tool",
	Long:  "Reads and writes LAMZU mouse profiles (DPI, colors, buttons, macros) over the vendor HID protocol",
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read profile(s) from the mouse and print as YAML",
	Run:   runGet,
}

var setCmd = &cobra.Command{
	Use:   "set [config]",
	Short: "Write profile settings to the mouse",
	Long: "Merges the given settings into the on-mouse profile; fields left out " +
		"keep their current values. Input is YAML from --file, the argument, or stdin.",
	Args: cobra.MaximumNArgs(1),
	Run:  runSet,
}

var getActiveCmd = &cobra.Command{
	Use:   "get-active",
	Short: "Print the active profile number",
	Run:   runGetActive,
}

var setActiveCmd = &cobra.Command{
	Use:   "set-active [number]",
	Short: "Set the active profile number (1-4)",
	Args:  cobra.ExactArgs(1),
	Run:   runSetActive,
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List compatible devices",
	Run:   runDevices,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	getCmd.Flags().IntVarP(&getProfileNumber, "profile", "p", 0, "profile number (1-4), default all")
	setCmd.Flags().IntVarP(&setProfileNumber, "profile", "p", 0, "profile number (1-4), default all")
	setCmd.Flags().StringVarP(&setInputFile, "file", "f", "", "read profile YAML from file")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(getActiveCmd)
	rootCmd.AddCommand(setActiveCmd)
	rootCmd.AddCommand(devicesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openMouse loads the config and opens a session on the first compatible
// device (or the configured path).
func openMouse() (*Mouse, *Config) {
	config, err := LoadConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	transport, err := openTransport(config)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	return NewMouse(transport), config
}

func runGet(cmd *cobra.Command, args []string) {
	mouse, _ := openMouse()
	defer mouse.Close()

	fmt.Fprintln(os.Stderr, "You may need to move your mouse to wake it up...")

	var out any
	if getProfileNumber != 0 {
		profile, err := mouse.Profile(getProfileNumber - 1)
		if err != nil {
			log.Fatalf("Failed to read profile %d: %v", getProfileNumber, err)
		}
		out = profile
	} else {
		profiles, err := mouse.Profiles()
		if err != nil {
			log.Fatalf("Failed to read profiles: %v", err)
		}
		out = profiles
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		log.Fatalf("Failed to encode profile: %v", err)
	}
	os.Stdout.Write(data)
}

func runSet(cmd *cobra.Command, args []string) {
	input, err := readSetInput(args)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	mouse, config := openMouse()
	defer mouse.Close()
	notifications := NewNotificationManager(config.Notifications)

	fmt.Fprintln(os.Stderr, "You may need to move your mouse to wake it up...")

	if setProfileNumber != 0 {
		var patch PartialProfile
		if err := yaml.Unmarshal(input, &patch); err != nil {
			log.Fatalf("Failed to parse profile: %v", err)
		}
		if err := mouse.Apply(setProfileNumber-1, &patch); err != nil {
			notifications.ShowError(fmt.Sprintf("Profile %d apply failed", setProfileNumber))
			log.Fatalf("Failed to write profile %d: %v", setProfileNumber, err)
		}
		notifications.ShowProfileApplied(setProfileNumber)
		fmt.Fprintf(os.Stderr, "Profile %d configured\n", setProfileNumber)
		return
	}

	var patches []*PartialProfile
	if err := yaml.Unmarshal(input, &patches); err != nil {
		log.Fatalf("Failed to parse profiles: %v", err)
	}
	if err := mouse.ApplyAll(patches); err != nil {
		notifications.ShowError("Profile apply failed")
		log.Fatalf("Failed to write profiles: %v", err)
	}
	notifications.ShowProfileApplied(setProfileNumber)
	fmt.Fprintln(os.Stderr, "Profiles configured")
}

// readSetInput returns the profile YAML from --file, the positional
// argument, or stdin, in that order.
func readSetInput(args []string) ([]byte, error) {
	if setInputFile != "" {
		return os.ReadFile(setInputFile)
	}
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	return io.ReadAll(os.Stdin)
}

func runGetActive(cmd *cobra.Command, args []string) {
	mouse, _ := openMouse()
	defer mouse.Close()

	index, err := mouse.ActiveIndex()
	if err != nil {
		log.Fatalf("Failed to read active profile: %v", err)
	}
	// Profiles are numbered from 1 on the CLI.
	fmt.Println(index + 1)
}

func runSetActive(cmd *cobra.Command, args []string) {
	var number int
	if _, err := fmt.Sscanf(args[0], "%d", &number); err != nil {
		log.Fatalf("Invalid profile number %q", args[0])
	}

	mouse, _ := openMouse()
	defer mouse.Close()

	if err := mouse.SetActiveIndex(number - 1); err != nil {
		log.Fatalf("Failed to set active profile: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Active profile set to %d\n", number)
}

func runDevices(cmd *cobra.Command, args []string) {
	devices, err := listDevices()
	if err != nil {
		log.Fatalf("Failed to enumerate devices: %v", err)
	}
	if len(devices) == 0 {
		fmt.Println("No compatible devices found")
		return
	}
	for _, d := range devices {
		fmt.Printf("%s  VID=0x%04X PID=0x%04X  %s\n", d.Path, d.VendorID, d.ProductID, d.Name)
	}
}
