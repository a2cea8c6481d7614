package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/danbi/ebbing/internal/applog"
	"github.com/danbi/ebbing/internal/backup"
	"github.com/danbi/ebbing/internal/extract"
	"github.com/danbi/ebbing/internal/report"
	"github.com/danbi/ebbing/internal/schedule"
	"github.com/danbi/ebbing/internal/server"
	"github.com/danbi/ebbing/internal/storage"
	"github.com/danbi/ebbing/internal/syncer"
	"github.com/danbi/ebbing/internal/tui"
	"github.com/danbi/ebbing/internal/types"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "extract":
			runExtract(os.Args[2:], false)
			return
		case "weighted":
			runExtract(os.Args[2:], true)
			return
		case "schedule":
			runSchedule(os.Args[2:])
			return
		case "stats":
			runStats(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "import":
			runImport(os.Args[2:])
			return
		case "logs":
			runLogs(os.Args[2:])
			return
		case "history":
			runHistory(os.Args[2:])
			return
		case "serve":
			runServe(os.Args[2:])
			return
		case "help", "--help", "-h":
			printHelp()
			return
		}
	}

	fs := flag.NewFlagSet("ebbing", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path (default ~/.local/share/ebbing/ebbing.db)")
	owner := fs.String("owner", "", "owner key in the database (default \"main\")")
	serve := fs.Bool("serve", false, "also expose the action server for external UIs")
	port := fs.Int("port", defaultPort(), "WebSocket port for -serve")
	fs.Parse(os.Args[1:])

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()
	defer sy.Flush(false)

	engine := extract.New(nil)

	if *serve {
		srv := server.New(*port, sy, engine)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				applog.Error("server.stopped", err)
			}
		}()
	}

	p := tea.NewProgram(tui.NewModel(sy, engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveDBPath applies the -db flag, then EBBING_DB, then the default.
func resolveDBPath(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if env := os.Getenv("EBBING_DB"); env != "" {
		return env
	}
	path, err := storage.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return path
}

func defaultPort() int {
	if env := os.Getenv("EBBING_PORT"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			return n
		}
	}
	return 19423
}

func resolveOwner(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if env := os.Getenv("EBBING_OWNER"); env != "" {
		return env
	}
	return "main"
}

// mustSyncer opens storage, initializes logging next to the database, and
// completes the initial load before returning.
func mustSyncer(dbFlag, ownerFlag string) (*syncer.Syncer, func()) {
	path := resolveDBPath(dbFlag)
	applog.Init(filepath.Dir(path))

	db, err := storage.OpenDB(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	sy := syncer.New(storage.NewStore(db), resolveOwner(ownerFlag), syncer.DefaultDebounce)
	sy.Start(context.Background())
	return sy, func() {
		db.Close()
		applog.Close()
	}
}

func runExtract(args []string, weighted bool) {
	name := "extract"
	if weighted {
		name = "weighted"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	fs.Parse(args)

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()

	engine := extract.New(nil)
	var picks []extract.Pick
	var err error
	if weighted {
		picks, err = engine.Weighted(sy.State())
	} else {
		_, err = sy.Apply(func(st types.AppState) (types.AppState, error) {
			out, p, derr := engine.Daily(st, time.Now())
			if derr != nil {
				return st, derr
			}
			picks = p
			return out, nil
		})
	}
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range picks {
		fmt.Printf("[%s] %s: no. %d\n", p.Label, p.Subject, p.Num)
	}
	sy.Flush(false)
}

func runSchedule(args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	days := fs.Int("days", 14, "horizon in days (0 = unbounded)")
	fs.Parse(args)

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()

	today := schedule.FormatDate(time.Now())
	listing := report.DueSchedule(sy.State(), today, *days)
	if len(listing) == 0 {
		fmt.Println("Nothing scheduled.")
		return
	}
	for _, day := range listing {
		fmt.Println(day.Date)
		for _, item := range day.Items {
			mark := ""
			if item.Overdue {
				mark = "  (overdue)"
			}
			fmt.Printf("  %s · %s · no.%d Lv.%d%s\n", item.Book, item.Subject, item.Num, item.Level, mark)
		}
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	fs.Parse(args)

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()

	today := schedule.FormatDate(time.Now())
	fmt.Printf("%-12s %-16s %10s %9s %6s %4s %7s\n", "BOOK", "SUBJECT", "STUDIED", "MASTERED", "FOCUS", "DUE", "RESETS")
	for _, st := range report.Stats(sy.State(), today) {
		fmt.Printf("%-12s %-16s %6d/%-3d %9d %6d %4d %7d\n",
			st.Book, st.Subject, st.Studied, st.Total, st.Mastered, st.Focus, st.Due, st.Resets)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	fs.Parse(args)

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()

	token, err := backup.Encode(sy.State())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	fs.Parse(args)

	fmt.Print("Paste backup token: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "No token given.")
		os.Exit(1)
	}
	state, err := backup.Decode(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid token: %v\n", err)
		os.Exit(1)
	}

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()

	if _, err := sy.Apply(func(types.AppState) (types.AppState, error) {
		return state.Clone(), nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sy.Flush(true)
	fmt.Println("Restored.")
}

func runLogs(args []string) {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	fs.Parse(args)

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()

	logs := sy.State().Logs
	if len(logs) == 0 {
		fmt.Println("No study events.")
		return
	}
	for _, log := range logs {
		fmt.Printf("%s %s  %s · %s · no.%d → Lv.%d\n", log.Date, log.Time, log.Book, log.Subject, log.Num, log.Level)
	}
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	fs.Parse(args)

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()

	history := sy.State().History
	if len(history) == 0 {
		fmt.Println("No extractions.")
		return
	}
	for _, h := range history {
		fmt.Printf("%s  %s\n", h.Time, h.Result)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	owner := fs.String("owner", "", "owner key")
	port := fs.Int("port", defaultPort(), "WebSocket port")
	fs.Parse(args)

	sy, closeDB := mustSyncer(*dbPath, *owner)
	defer closeDB()
	defer sy.Flush(false)

	srv := server.New(*port, sy, extract.New(nil))
	if err := srv.ListenAndServe(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`ebbing — spaced-repetition tracker for numbered practice items

Usage:
  ebbing                  open the dashboard (add -serve to expose the action server)
  ebbing extract          draw today's items (one per subject) and record the run
  ebbing weighted         draw up to 5 focus-flagged items
  ebbing schedule         list upcoming reviews (-days N, 0 = all)
  ebbing stats            per-subject progress
  ebbing export           print a backup token
  ebbing import           restore from a backup token (reads stdin)
  ebbing logs             recent study events
  ebbing history          recent extraction runs
  ebbing serve            run only the WebSocket action server
  ebbing help             this text

Common flags: -db PATH, -owner KEY (or EBBING_DB / EBBING_OWNER).`)
}
