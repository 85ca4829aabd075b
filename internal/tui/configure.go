package tui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/SidoJain/speech-to-text/internal/config"
	"github.com/SidoJain/speech-to-text/internal/language"
	"github.com/SidoJain/speech-to-text/internal/recognizer"
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section
type ConfigSection string

const (
	SectionLanguage      ConfigSection = "language"
	SectionRecognizer    ConfigSection = "recognizer"
	SectionExport        ConfigSection = "export"
	SectionNotifications ConfigSection = "notifications"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// Run starts the TUI configuration wizard over a copy of cfg. The caller
// persists the result; nothing is written to disk here.
func Run(cfg *config.Config) (*ConfigureResult, error) {
	edited := *cfg

	for {
		clearScreen()
		fmt.Println(Logo())
		fmt.Println(StyleSubtle.Render("Speech-to-text configuration"))
		fmt.Println()

		section, err := pickSection(&edited)
		if err != nil {
			return nil, err
		}

		switch section {
		case SectionLanguage:
			tag, err := PickLanguage(edited.Session.Language)
			if err != nil {
				return nil, err
			}
			edited.Session.Language = tag
		case SectionRecognizer:
			if err := editRecognizer(&edited); err != nil {
				return nil, err
			}
		case SectionExport:
			if err := editExport(&edited); err != nil {
				return nil, err
			}
		case SectionNotifications:
			if err := editNotifications(&edited); err != nil {
				return nil, err
			}
		case SectionSaveExit:
			return &ConfigureResult{Config: &edited}, nil
		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil
		}
	}
}

func pickSection(cfg *config.Config) (ConfigSection, error) {
	lang := language.FromTag(cfg.Session.Language)

	var section ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration").
				Options(
					huh.NewOption(fmt.Sprintf("Language (%s)", lang.Name), SectionLanguage),
					huh.NewOption(fmt.Sprintf("Recognizer (%s)", cfg.Recognizer.Provider), SectionRecognizer),
					huh.NewOption("Export directory", SectionExport),
					huh.NewOption("Notifications", SectionNotifications),
					huh.NewOption("Save & Exit", SectionSaveExit),
					huh.NewOption("Discard & Exit", SectionDiscardExit),
				).
				Value(&section),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return section, nil
}

// PickLanguage shows a filterable selector over the supported locales and
// returns the chosen tag.
func PickLanguage(current string) (string, error) {
	selected := language.FromTag(current).Tag

	options := make([]huh.Option[string], 0, len(language.List()))
	for _, l := range language.List() {
		label := fmt.Sprintf("%s - %s", l.Name, l.NativeName)
		if l.Tag == selected {
			label += " (current)"
		}
		options = append(options, huh.NewOption(label, l.Tag))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Description("Applies to the next session, not the one in progress").
				Options(options...).
				Filtering(true).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

func editRecognizer(cfg *config.Config) error {
	providerOptions := make([]huh.Option[string], 0, len(recognizer.Providers()))
	for _, name := range recognizer.Providers() {
		providerOptions = append(providerOptions, huh.NewOption(name, name))
	}

	apiKey := ""
	sampleRate := strconv.Itoa(cfg.Recognizer.SampleRate)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Options(providerOptions...).
				Value(&cfg.Recognizer.Provider),
			huh.NewInput().
				Title("API key").
				Description(fmt.Sprintf("Current: %s (leave empty to keep)", maskAPIKey(cfg.Recognizer.APIKey))).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Model").
				Value(&cfg.Recognizer.Model),
			huh.NewInput().
				Title("Sample rate").
				Validate(validateInt).
				Value(&sampleRate),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if apiKey != "" {
		cfg.Recognizer.APIKey = apiKey
	}
	if n, err := strconv.Atoi(sampleRate); err == nil {
		cfg.Recognizer.SampleRate = n
	}
	return nil
}

func editExport(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export directory").
				Description("Where `s2t export` writes transcript files").
				Value(&cfg.Export.Directory),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func editNotifications(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications?").
				Value(&cfg.Notifications.Enabled),
			huh.NewSelect[string]().
				Title("Notification type").
				Options(
					huh.NewOption("Desktop", "desktop"),
					huh.NewOption("Log", "log"),
					huh.NewOption("None", "none"),
				).
				Value(&cfg.Notifications.Type),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func maskAPIKey(key string) string {
	if key == "" {
		return "not set"
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
