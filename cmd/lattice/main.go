package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"github.com/iw2rmb/lattice"
	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/config"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/host"
	"github.com/iw2rmb/lattice/host/builtin"
)

var log = commonlog.GetLogger("lattice")

// appConfig is loaded once before any command runs.
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:           "lattice",
	Short:         "Editor proxy, annotations and breakpoints",
	Long:          `lattice edits text through an ordered asynchronous proxy and runs plugins that annotate it`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		appConfig = cfg
		verbose, err := cmd.Root().PersistentFlags().GetCount("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		configureLog(cfg.Log, verbose)

		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		switch colorFlag {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		case "auto":
			color.NoColor = !isTerminal(os.Stdout)
		default:
			return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorFlag)
		}
		return nil
	},
}

func main() {
	rootCmd.Version = lattice.Version()

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "configuration file (default ./"+config.FileName+" when present)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func configureLog(c config.LogConfig, verbose int) {
	verbosity := max(c.Verbosity, verbose)
	if c.File == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	path := c.File
	commonlog.Configure(verbosity, &path)
}

// loadConfig reads --config, or ./lattice.toml when the flag is empty and
// the file exists. Without either it returns the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		if _, err := os.Stat(config.FileName); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		path = config.FileName
	}
	return config.Load(path)
}

// newCore loads path into a new editor core. A missing file opens empty.
func newCore(cfg config.Config, path string) (*editor.Core, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	doc := buffer.New(string(data), buffer.Options{HistoryLimit: cfg.Editor.HistoryLimit})
	log.Debugf("opened %s (%d lines)", path, doc.LineCount())
	return editor.NewCore(doc, cfg.EditorOptions()), nil
}

// openFile loads path into a new headless editor.
func openFile(cfg config.Config, path string, exec editor.Executor) (*facade.Editor, error) {
	core, err := newCore(cfg, path)
	if err != nil {
		return nil, err
	}
	return facade.New(core, cfg.ProxyOptions(exec)), nil
}

// newHost registers the built-in plugins against ed.
func newHost(cfg config.Config, ed *facade.Editor, panel *host.Panel) (*host.Host, error) {
	h := host.New(ed, host.Options{Settings: cfg.Plugins, Panel: panel})
	for _, p := range builtin.All() {
		if err := h.Register(p); err != nil {
			return nil, err
		}
	}
	return h, nil
}
