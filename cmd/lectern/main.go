package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/bootstrap"
	libdto "lectern/internal/modules/library/dto"
	prefdto "lectern/internal/modules/preferences/dto"
	readerdto "lectern/internal/modules/reader/dto"
	"lectern/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	dataDir    string
	apiURL     string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "lectern",
		Short:         "Terminal reader for your uploaded books",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (yaml)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "local data directory")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "reading API base URL")

	root.AddCommand(newTUICmd(&flags))
	root.AddCommand(newAuthCmd(&flags))
	root.AddCommand(newBooksCmd(&flags))
	root.AddCommand(newReadCmd(&flags))
	root.AddCommand(newProgressCmd(&flags))
	root.AddCommand(newTextCmd(&flags))
	root.AddCommand(newThemeCmd(&flags))
	return root
}

func loadApp(flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.configPath, config.Overrides{DataDir: flags.dataDir, APIURL: flags.apiURL})
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp loads the app for one command and closes it afterwards.
func withApp(flags *globalFlags, run func(app *bootstrap.App) error) error {
	app, err := loadApp(flags)
	if err != nil {
		return err
	}
	runErr := run(app)
	if closeErr := app.Close(); closeErr != nil && runErr == nil {
		return closeErr
	}
	return runErr
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the lectern terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(flags, bootstrap.RunTUI)
		},
	}
}

func newAuthCmd(flags *globalFlags) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Sign in and out"}

	auth.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.AuthCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if !out.Authenticated {
					_, _ = fmt.Fprintln(w, "not signed in")
				} else {
					_, _ = fmt.Fprintf(w, "signed in as %s <%s> (%s)\n", out.UserName, out.UserEmail, out.UserID)
				}
				if out.HasToken && !out.TokenExpiresAt.IsZero() {
					_, _ = fmt.Fprintf(w, "token expires %s\n", out.TokenExpiresAt.Local().Format(time.RFC1123))
				}
				return nil
			})
		},
	})

	var open bool
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Print the Google sign-in URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.AuthCLI.Login(cmd.Context(), open)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(w, out.URL)
				if out.Opened {
					_, _ = fmt.Fprintln(w, "opened in browser")
				}
				_, _ = fmt.Fprintln(w, "after signing in, run: lectern auth token <token>")
				return nil
			})
		},
	}
	loginCmd.Flags().BoolVar(&open, "open", false, "open the URL in a browser")

	auth.AddCommand(loginCmd, &cobra.Command{
		Use:   "token <token>",
		Short: "Store a bearer token issued after sign-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.AuthCLI.SaveToken(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if out.Authenticated {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "token saved, signed in as %s\n", out.UserName)
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "token saved, but the server does not accept it yet")
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				if err := app.AuthCLI.Logout(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	})
	return auth
}

func newBooksCmd(flags *globalFlags) *cobra.Command {
	books := &cobra.Command{Use: "books", Short: "Library commands"}

	books.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploaded books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.LibraryCLI.ListBooks(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if out.Stale {
					_, _ = fmt.Fprintln(w, "(offline: showing cached list)")
				}
				if len(out.Books) == 0 {
					_, _ = fmt.Fprintln(w, "no books")
					return nil
				}
				for _, book := range out.Books {
					printBookLine(w, book)
				}
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				book, err := app.LibraryCLI.GetBook(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "id:       %s\n", book.ID)
				_, _ = fmt.Fprintf(w, "title:    %s\n", book.Title)
				if book.Author != "" {
					_, _ = fmt.Fprintf(w, "author:   %s\n", book.Author)
				}
				_, _ = fmt.Fprintf(w, "file:     %s\n", book.Filename)
				_, _ = fmt.Fprintf(w, "pages:    %d\n", book.PageCount)
				_, _ = fmt.Fprintf(w, "status:   %s\n", book.Status)
				if !book.UploadedAt.IsZero() {
					_, _ = fmt.Fprintf(w, "uploaded: %s\n", book.UploadedAt.Local().Format("2006-01-02 15:04"))
				}
				if book.HasProgress {
					_, _ = fmt.Fprintf(w, "progress: %.0f%%\n", book.Percent)
				}
				return nil
			})
		},
	})

	var title string
	uploadCmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.LibraryCLI.UploadBook(cmd.Context(), args[0], title)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%s), %d pages, status %s\n",
					out.Book.Title, out.Book.ID, out.LocalPages, out.Book.Status)
				return nil
			})
		},
	}
	uploadCmd.Flags().StringVar(&title, "title", "", "book title (optional)")

	var interval time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Wait for processing books to finish",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				ctx, cancel := signalContext()
				defer cancel()
				every := interval
				if every <= 0 {
					every = app.Config.Library.PollInterval
				}
				w := cmd.OutOrStdout()
				err := app.LibraryCLI.Watch(ctx, every, func(change libdto.StatusChangeOutput) {
					_, _ = fmt.Fprintf(w, "%s: %s -> %s\n", change.Title, change.From, change.To)
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
	watchCmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default from config)")

	books.AddCommand(uploadCmd, watchCmd, &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write a spreadsheet of the library and reading progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.LibraryCLI.Export(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				note := ""
				if out.Stale {
					note = " (from cached list)"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d books to %s%s\n", out.Rows, out.Path, note)
				return nil
			})
		},
	})
	return books
}

func printBookLine(w io.Writer, book libdto.BookOutput) {
	progress := "-"
	if book.HasProgress {
		progress = fmt.Sprintf("%.0f%%", book.Percent)
	}
	_, _ = fmt.Fprintf(w, "%s\t%-10s\t%4s\t%s\n", book.ID, book.Status, progress, book.Title)
}

func newReadCmd(flags *globalFlags) *cobra.Command {
	var section int
	var next, prev, reveal bool
	readCmd := &cobra.Command{
		Use:   "read <id>",
		Short: "Print a section of a book, resuming where you left off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if next && prev {
				return fmt.Errorf("--next and --prev are mutually exclusive")
			}
			return withApp(flags, func(app *bootstrap.App) error {
				ctx, cancel := signalContext()
				defer cancel()

				var out readerdto.SectionOutput
				var err error
				switch {
				case next:
					out, err = app.ReaderCLI.Navigate(ctx, args[0], 1)
				case prev:
					out, err = app.ReaderCLI.Navigate(ctx, args[0], -1)
				case cmd.Flags().Changed("section"):
					// Sections are numbered from 1 on the command line.
					out, err = app.ReaderCLI.Open(ctx, args[0], max(section-1, 0))
				default:
					out, err = app.ReaderCLI.Open(ctx, args[0], -1)
				}
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s · section %d/%d · %.0f%%\n", out.Title, out.Index+1, out.Total, out.Percent)
				if out.SectionTitle != "" {
					_, _ = fmt.Fprintln(w, out.SectionTitle)
				}
				_, _ = fmt.Fprintln(w)
				return printText(ctx, app, w, out.Text, reveal)
			})
		},
	}
	readCmd.Flags().IntVar(&section, "section", 0, "section number to open")
	readCmd.Flags().BoolVar(&next, "next", false, "advance to the next section")
	readCmd.Flags().BoolVar(&prev, "prev", false, "go back one section")
	readCmd.Flags().BoolVar(&reveal, "reveal", false, "reveal the text progressively")
	return readCmd
}

// printText writes text at once, or progressively at the saved reveal speed.
func printText(ctx context.Context, app *bootstrap.App, w io.Writer, text string, reveal bool) error {
	if !reveal {
		_, err := fmt.Fprintln(w, text)
		return err
	}
	theme, err := app.PreferencesCLI.Show(ctx)
	if err != nil {
		return err
	}
	err = app.ReaderCLI.Play(ctx, text, theme.RevealSpeed, theme.RevealMode, w)
	_, _ = fmt.Fprintln(w)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newProgressCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id>",
		Short: "Show saved reading progress for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.ReaderCLI.Progress(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: section %d/%d (%.0f%%), saved %s\n",
					out.BookID, out.Section+1, out.Total, out.Percent, out.UpdatedAt.Local().Format("2006-01-02 15:04"))
				return nil
			})
		},
	}
}

func newTextCmd(flags *globalFlags) *cobra.Command {
	var reveal bool
	textCmd := &cobra.Command{
		Use:   "text",
		Short: "Print the server's sample reading text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				ctx, cancel := signalContext()
				defer cancel()
				out, err := app.ReaderCLI.SampleText(ctx)
				if err != nil {
					return err
				}
				return printText(ctx, app, cmd.OutOrStdout(), strings.Join(out.Sections, "\n\n"), reveal)
			})
		},
	}
	textCmd.Flags().BoolVar(&reveal, "reveal", false, "reveal the text progressively")
	return textCmd
}

func newThemeCmd(flags *globalFlags) *cobra.Command {
	theme := &cobra.Command{Use: "theme", Short: "Reader theme settings"}

	theme.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.PreferencesCLI.Show(cmd.Context())
				if err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	var fontFamily, textColor, mode string
	var fontSize, speed int
	var lineHeight float64
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change theme fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input prefdto.UpdateInput
			changed := cmd.Flags().Changed
			if changed("font-family") {
				input.FontFamily = &fontFamily
			}
			if changed("font-size") {
				input.FontSize = &fontSize
			}
			if changed("color") {
				input.TextColor = &textColor
			}
			if changed("line-height") {
				input.LineHeight = &lineHeight
			}
			if changed("speed") {
				input.RevealSpeed = &speed
			}
			if changed("mode") {
				input.RevealMode = &mode
			}
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.PreferencesCLI.Set(cmd.Context(), input)
				if err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	setCmd.Flags().StringVar(&fontFamily, "font-family", "", "font family name")
	setCmd.Flags().IntVar(&fontSize, "font-size", 0, "font size (8-48)")
	setCmd.Flags().StringVar(&textColor, "color", "", "text color, #rgb or #rrggbb")
	setCmd.Flags().Float64Var(&lineHeight, "line-height", 0, "line height (1.0-3.0)")
	setCmd.Flags().IntVar(&speed, "speed", 0, "reveal speed (1-10)")
	setCmd.Flags().StringVar(&mode, "mode", "", "reveal unit: word|char")

	theme.AddCommand(setCmd, &cobra.Command{
		Use:   "reset",
		Short: "Restore the default theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.PreferencesCLI.Reset(cmd.Context())
				if err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "export <file.yaml>",
		Short: "Write the theme as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("create %s: %w", args[0], err)
				}
				if err := app.PreferencesCLI.Export(cmd.Context(), f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "theme written to %s\n", args[0])
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Load the theme from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				out, err := app.PreferencesCLI.Import(cmd.Context(), f)
				if err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})
	return theme
}

func printTheme(w io.Writer, theme prefdto.ThemeOutput) {
	_, _ = fmt.Fprintf(w, "font-family: %s\n", theme.FontFamily)
	_, _ = fmt.Fprintf(w, "font-size:   %d\n", theme.FontSize)
	_, _ = fmt.Fprintf(w, "color:       %s\n", theme.TextColor)
	_, _ = fmt.Fprintf(w, "line-height: %.1f\n", theme.LineHeight)
	_, _ = fmt.Fprintf(w, "speed:       %d\n", theme.RevealSpeed)
	_, _ = fmt.Fprintf(w, "mode:        %s\n", theme.RevealMode)
}
