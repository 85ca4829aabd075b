package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SidoJain/speech-to-text/internal/bus"
	"github.com/SidoJain/speech-to-text/internal/config"
	"github.com/SidoJain/speech-to-text/internal/daemon"
	"github.com/SidoJain/speech-to-text/internal/language"
	"github.com/SidoJain/speech-to-text/internal/tui"
)

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "s2t",
	Short: "Speech-to-text sessions from the command line",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		startCmd(),
		stopCmd(),
		toggleCmd(),
		statusCmd(),
		transcriptCmd(),
		editCmd(),
		clearCmd(),
		copyCmd(),
		exportCmd(),
		languageCmd(),
		languagesCmd(),
		configureCmd(),
		versionCmd(),
		quitCmd(),
	)
}

func serveCmd() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := daemon.New(daemon.Options{Demo: demo})
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			return d.Run()
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Use a scripted recognizer instead of the configured provider")

	return cmd
}

// sendCmd builds the common one-shot command shape: send, print the
// response, wrap dial errors.
func sendCmd(use, short string, cmdByte byte) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(cmdByte, "")
			if err != nil {
				return fmt.Errorf("is the daemon running? %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func startCmd() *cobra.Command {
	return sendCmd("start", "Start a recognition session", bus.CmdStart)
}

func stopCmd() *cobra.Command {
	return sendCmd("stop", "Request the current session to stop", bus.CmdStop)
}

func toggleCmd() *cobra.Command {
	return sendCmd("toggle", "Start or stop depending on session state", bus.CmdToggle)
}

func statusCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show session state, language and last error",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdStatus, "")
			if err != nil {
				return fmt.Errorf("is the daemon running? %w", err)
			}
			if raw {
				fmt.Print(resp)
				return nil
			}
			fields := parseStatus(resp)
			lang := ""
			if tag := fields["language"]; tag != "" {
				lang = language.FromTag(tag).Name
			}
			fmt.Println(tui.RenderStatus(fields["state"], lang, fields["confidence"], fields["error"]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the unformatted protocol response")

	return cmd
}

// parseStatus splits "STATUS k=v k2=\"quoted v\"" into a field map.
func parseStatus(resp string) map[string]string {
	fields := map[string]string{}
	rest := strings.TrimPrefix(strings.TrimSpace(resp), "STATUS ")
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			break
		}
		key := rest[:eq]
		rest = rest[eq+1:]
		var val string
		if strings.HasPrefix(rest, `"`) {
			end := strings.Index(rest[1:], `"`)
			if end < 0 {
				val, rest = rest[1:], ""
			} else {
				val, rest = rest[1:end+1], strings.TrimPrefix(rest[end+2:], " ")
			}
		} else {
			sp := strings.IndexByte(rest, ' ')
			if sp < 0 {
				val, rest = rest, ""
			} else {
				val, rest = rest[:sp], rest[sp+1:]
			}
		}
		fields[key] = val
	}
	return fields
}

func transcriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript",
		Short: "Print the current transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdTranscript, "")
			if err != nil {
				return fmt.Errorf("is the daemon running? %w", err)
			}
			if resp != "" {
				fmt.Println(resp)
			}
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <text>",
		Short: "Replace the transcript with the given text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdEdit, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("is the daemon running? %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return sendCmd("clear", "Discard the transcript", bus.CmdClear)
}

func copyCmd() *cobra.Command {
	return sendCmd("copy", "Copy the transcript to the clipboard", bus.CmdCopy)
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write the transcript to a dated text file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			resp, err := bus.SendCommand(bus.CmdExport, dir)
			if err != nil {
				return fmt.Errorf("is the daemon running? %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func languageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language [tag]",
		Short: "Show or set the recognition language",
		Long: `Show or set the recognition language.

With no argument an interactive picker opens. The change applies to the
next session; a session already listening keeps its language.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := ""
			if len(args) == 1 {
				tag = args[0]
				if !language.IsValidTag(tag) {
					return fmt.Errorf("unknown language tag %q, see `s2t languages`", tag)
				}
			} else {
				resp, err := bus.SendCommand(bus.CmdLanguage, "")
				if err != nil {
					return fmt.Errorf("is the daemon running? %w", err)
				}
				current := parseStatus(resp)["language"]
				tag, err = tui.PickLanguage(current)
				if err != nil {
					return err
				}
			}
			resp, err := bus.SendCommand(bus.CmdLanguage, tag)
			if err != nil {
				return fmt.Errorf("is the daemon running? %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func languagesCmd() *cobra.Command {
	return sendCmd("languages", "List supported languages", bus.CmdLanguages)
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			result, err := tui.Run(cfg)
			if err != nil {
				return fmt.Errorf("configuration wizard error: %w", err)
			}
			if result.Cancelled {
				fmt.Println("Configuration cancelled.")
				return nil
			}

			if err := result.Config.Validate(); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			if err := config.Save(result.Config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Println(tui.StyleSuccess.Render("Configuration saved."))
			fmt.Println(tui.StyleMuted.Render("A running daemon picks up the change automatically."))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return sendCmd("version", "Get protocol version", bus.CmdVersion)
}

func quitCmd() *cobra.Command {
	return sendCmd("quit", "Stop the daemon", bus.CmdQuit)
}
