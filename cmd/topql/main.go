package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/topql"
	"github.com/tuannm99/topql/internal"
)

// ---- History (own file) ----

type History struct {
	path  string
	lines []string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

func (h *History) Load(max int) error {
	if h.path == "" {
		return nil
	}
	f, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		h.lines = append(h.lines, s)
		if max > 0 && len(h.lines) > max {
			h.lines = h.lines[len(h.lines)-max:]
		}
	}
	return sc.Err()
}

func (h *History) Append(stmt string) error {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" || h.path == "" {
		return nil
	}

	// store single-line; collapse whitespace/newlines
	stmt = compactOneLine(stmt)

	// ensure dir exists
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, stmt); err != nil {
		return err
	}
	h.lines = append(h.lines, stmt)
	return nil
}

func (h *History) Print(last int) {
	if last <= 0 || last > len(h.lines) {
		last = len(h.lines)
	}
	start := len(h.lines) - last
	if start < 0 {
		start = 0
	}
	for i := start; i < len(h.lines); i++ {
		fmt.Printf("%5d  %s\n", i+1, h.lines[i])
	}
}

func compactOneLine(s string) string {
	// replace newlines/tabs with spaces, then collapse multiple spaces
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// ---- REPL helpers ----

// statementComplete checks for a terminating ';' outside quotes. String
// literals have no escapes: a quote always toggles, single or double.
func statementComplete(buf string) bool {
	var quote rune

	for _, r := range buf {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';':
			return true
		}
	}
	return false
}

func normalizeStmt(buf string) string {
	// keep the terminating ';' out of the statement; the parser ignores
	// trailing tokens anyway but history reads better without it
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(buf), ";"))
}

func isMetaCommand(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "\\") ||
		line == "quit" || line == "exit"
}

func printResult(res *topql.Result) {
	if len(res.Columns) == 0 {
		// DDL/DML
		if res.Message != "" {
			fmt.Println(res.Message)
		} else {
			fmt.Printf("OK (%d affected)\n", res.RowsAffected)
		}
		return
	}

	cols := res.Columns
	rows := res.Rows

	// 1) compute widths
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	cell := func(row map[string]any, col string) string {
		v, ok := row[col]
		if !ok {
			return "NULL"
		}
		return fmt.Sprintf("%v", v)
	}
	for _, row := range rows {
		for i, c := range cols {
			if s := cell(row, c); len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	// helper to print a row
	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				fmt.Print(" | ")
			}
			fmt.Print(padRight(values[i], widths[i]))
		}
		fmt.Println()
	}

	// 2) header
	hdr := make([]string, len(cols))
	copy(hdr, cols)
	printRow(hdr)

	// 3) separator ----+----
	for i := range cols {
		if i > 0 {
			fmt.Print("-+-")
		}
		fmt.Print(strings.Repeat("-", widths[i]))
	}
	fmt.Println()

	// 4) rows
	for _, row := range rows {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = cell(row, c)
		}
		printRow(out)
	}

	fmt.Printf("(%d rows)\n", res.Count)
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".topql_history"
	}
	return filepath.Join(home, ".topql_history")
}

func printTables(db *topql.Database) {
	names := db.ListTables()
	if len(names) == 0 {
		fmt.Println("no tables")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func describeTable(db *topql.Database, name string) {
	info, err := db.DescribeTable(name)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	for _, c := range info.Columns {
		fmt.Printf("%s %s\n", c.Name, c.Type)
	}
	fmt.Printf("(%d rows)\n", info.RowCount)
}

func main() {
	var (
		cfgPath    = flag.String("config", "", "yaml config file path")
		dataDir    = flag.String("data-dir", "", "persist tables under this directory")
		gitHistory = flag.Bool("git-history", false, "record every snapshot as a git commit (needs -data-dir)")
		histPath   = flag.String("history", defaultHistoryPath(), "history file path")
		histMax    = flag.Int("history-max", 2000, "max history lines loaded into memory")
		oneShotSQL = flag.String("c", "", "execute one SQL and exit")
	)
	flag.Parse()

	dir := *dataDir
	snapshots := *gitHistory
	replHist := *histPath

	if *cfgPath != "" {
		cfg, err := internal.LoadConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		if dir == "" && cfg.Storage.Persist {
			dir = cfg.Storage.DataDir
		}
		if !snapshots {
			snapshots = cfg.Storage.SnapshotHistory
		}
		if cfg.Repl.HistoryFile != "" {
			replHist = cfg.Repl.HistoryFile
		}
	}

	var (
		db  *topql.Database
		err error
	)
	if dir != "" {
		db, err = topql.Open(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open: %v\n", err)
			os.Exit(1)
		}
		if snapshots {
			if err := db.EnableSnapshotHistory(); err != nil {
				fmt.Fprintf(os.Stderr, "history: %v\n", err)
				os.Exit(1)
			}
		}
	} else {
		db = topql.New()
	}

	// one-shot mode
	if strings.TrimSpace(*oneShotSQL) != "" {
		res, err := db.Execute(normalizeStmt(*oneShotSQL))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printResult(res)
		return
	}

	h := NewHistory(replHist)
	_ = h.Load(*histMax)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "topql> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	// preload history into readline (so arrow-up works immediately)
	for _, line := range h.lines {
		_ = rl.SaveHistory(line)
	}

	var buf strings.Builder

	if dir != "" {
		fmt.Printf("persisting to %s\n", dir)
	}
	fmt.Println("type \\help for help")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			// Ctrl+C clears current buffer
			if buf.Len() > 0 {
				buf.Reset()
				rl.SetPrompt("topql> ")
				continue
			}
			fmt.Println("^C")
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// meta commands
		if isMetaCommand(line) {
			switch {
			case line == "\\q" || line == "quit" || line == "exit":
				return
			case line == "\\help":
				fmt.Println(`meta commands:
  \q | quit | exit       quit
  \tables                list tables
  \d <table>             describe a table
  \history               print history
  \help                  show help

sql:
  end statement with ';'
  multiline is supported (CLI will wait until ';')`)
			case line == "\\tables":
				printTables(db)
			case strings.HasPrefix(line, "\\d "):
				describeTable(db, strings.TrimSpace(strings.TrimPrefix(line, "\\d ")))
			case line == "\\history":
				h.Print(50)
			default:
				fmt.Printf("unknown command: %s\n", line)
			}
			continue
		}

		// accumulate sql
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)

		if !statementComplete(buf.String()) {
			rl.SetPrompt("...> ")
			continue
		}

		stmt := normalizeStmt(buf.String())
		buf.Reset()
		rl.SetPrompt("topql> ")

		// persist history by executed statement
		_ = h.Append(stmt)
		_ = rl.SaveHistory(compactOneLine(stmt))

		res, err := db.Execute(stmt)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		printResult(res)
	}
}
