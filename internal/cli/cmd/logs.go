package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/wayfinder/internal/cli/styles"
)

const serveLogName = "serve.log"

var (
	logsLines  int
	logsMaxAge int
	logsDryRun bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View and manage the serve log files",
	Long: `Inspect the rotated log files written by 'wayfinder serve' when
logging.enable_file_log is set.`,
}

var logsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the log directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Config.Logging.LogDir)
		return err
	},
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List log files with size and age",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		files, err := logFiles(a.Config.Logging.LogDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(files) == 0 {
			_, err = fmt.Fprintln(out, a.Theme.Subtle.Render("no log files"))
			return err
		}
		now := time.Now()
		for _, f := range files {
			if _, err := fmt.Fprintf(out, "%-40s %10s  %s\n",
				f.name, formatSize(f.size), a.Theme.Subtle.Render(styles.RelativeTime(f.modTime, now))); err != nil {
				return err
			}
		}
		return nil
	},
}

var logsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the last lines of the current serve log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		if logsLines <= 0 {
			return fmt.Errorf("--lines must be positive")
		}
		path := filepath.Join(a.Config.Logging.LogDir, serveLogName)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "no log file at %s\n", path)
			return err
		}
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return tailLines(cmd.OutOrStdout(), f, logsLines)
	},
}

var logsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove rotated log files older than --max-age days",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		maxAge := logsMaxAge
		if !cmd.Flags().Changed("max-age") {
			maxAge = a.Config.Logging.MaxAge
		}
		files, err := logFiles(a.Config.Logging.LogDir)
		if err != nil {
			return err
		}

		cutoff := time.Now().AddDate(0, 0, -maxAge)
		removed := 0
		for _, f := range files {
			if f.name == serveLogName || !f.modTime.Before(cutoff) {
				continue
			}
			path := filepath.Join(a.Config.Logging.LogDir, f.name)
			if logsDryRun {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "would remove %s\n", path)
				removed++
				continue
			}
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		verb := "removed"
		if logsDryRun {
			verb = "would remove"
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SuccessStyle.Render(fmt.Sprintf("%s %d file(s)", verb, removed)))
		return err
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsPathCmd, logsListCmd, logsTailCmd, logsCleanCmd)

	logsTailCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of lines to show")
	logsCleanCmd.Flags().IntVar(&logsMaxAge, "max-age", 7, "maximum age in days (defaults to logging.max_age)")
	logsCleanCmd.Flags().BoolVar(&logsDryRun, "dry-run", false, "show what would be removed")
}

type logFile struct {
	name    string
	size    int64
	modTime time.Time
}

// logFiles returns the serve log and its rotated backups, newest first.
func logFiles(dir string) ([]logFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []logFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), serveLogName) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{name: e.Name(), size: info.Size(), modTime: info.ModTime()})
	}
	slices.SortFunc(files, func(a, b logFile) int { return b.modTime.Compare(a.modTime) })
	return files, nil
}

// tailLines writes the last n lines of r, keeping at most n in memory.
func tailLines(w io.Writer, r io.Reader, n int) error {
	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	for _, line := range ring {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
