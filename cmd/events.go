package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pheno/internal/telemetry"
	"github.com/papapumpkin/pheno/internal/ui"
)

var eventsCmd = &cobra.Command{
	Use:   "events [events.jsonl]",
	Short: "View JSONL telemetry events from previous runs",
	Long: `Reads and formats a JSONL telemetry file written by "pheno run --telemetry".

Without an argument, reads the configured telemetry_path.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	eventsCmd.Flags().String("run", "", "only show events for this run ID (prefix match)")
	eventsCmd.Flags().StringSlice("kind", nil, "only show these event kinds")
	rootCmd.AddCommand(eventsCmd)
}

// eventFilter selects which events are printed.
type eventFilter struct {
	run   string
	kinds map[string]bool
}

func (f eventFilter) match(evt telemetry.RawEvent) bool {
	if f.run != "" && !strings.HasPrefix(evt.RunID, f.run) {
		return false
	}
	return len(f.kinds) == 0 || f.kinds[evt.Kind]
}

func runEvents(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	path := sess.cfg.TelemetryPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("events: no telemetry file given and telemetry_path is not set")
	}

	follow, _ := cmd.Flags().GetBool("follow")
	filter := eventFilter{kinds: make(map[string]bool)}
	filter.run, _ = cmd.Flags().GetString("run")
	kinds, _ := cmd.Flags().GetStringSlice("kind")
	for _, k := range kinds {
		filter.kinds[k] = true
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("events: open %s: %w", path, err)
	}
	defer f.Close()

	printer := ui.NewWriter(cmd.OutOrStdout(), sess.cfg.NoColor)
	reader := bufio.NewReader(f)
	if err := printLines(reader, printer, filter); err != nil {
		return fmt.Errorf("events: read %s: %w", path, err)
	}
	if !follow {
		return nil
	}

	ctx, cancel := setupSignalContext(sess.printer)
	defer cancel()
	return tailFollow(ctx, reader, path, printer, filter)
}

// printLines prints every complete line available from r.
func printLines(r *bufio.Reader, printer *ui.Printer, filter eventFilter) error {
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			printLine(printer, line, filter)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// tailFollow watches the file using fsnotify and prints events as they are
// appended, until ctx is canceled.
func tailFollow(ctx context.Context, r *bufio.Reader, path string, printer *ui.Printer, filter eventFilter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("events: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("events: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := printLines(r, printer, filter); err != nil {
				return fmt.Errorf("events: read %s: %w", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("events: watch %s: %w", path, err)
		}
	}
}

// printLine decodes a JSONL line and prints it, or prints it raw if it is
// not a telemetry event.
func printLine(printer *ui.Printer, line string, filter eventFilter) {
	var evt telemetry.RawEvent
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		printer.Info("??? " + line)
		return
	}
	if filter.match(evt) {
		printer.Event(evt)
	}
}
