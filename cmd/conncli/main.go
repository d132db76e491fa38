// Command conncli plays Connections in the terminal.
//
// It shares configuration, the SQLite database and the puzzle cache with the
// server, and saves progress under the "local" owner.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/puzzles/apps/go-server/internal/config"
	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
	"github.com/robalobadob/puzzles/apps/go-server/internal/daily"
	"github.com/robalobadob/puzzles/apps/go-server/internal/database"
	"github.com/robalobadob/puzzles/apps/go-server/internal/game"
	"github.com/robalobadob/puzzles/apps/go-server/internal/puzzles"
	"github.com/robalobadob/puzzles/apps/go-server/internal/store"
)

const owner = "local"

func main() {
	date := flag.String("date", daily.DateKey(time.Now()), "Puzzle date (YYYY-MM-DD)")
	dbPath := flag.String("db", "", "SQLite database path (defaults to DB_PATH)")
	seed := flag.Uint64("seed", 0, "Shuffle seed (0 picks one at random)")
	list := flag.Bool("list", false, "List recent dates with their status and exit")
	plain := flag.Bool("plain", false, "Read line commands from stdin instead of the interactive board")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	ctx := context.Background()
	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		fmt.Println("Error opening database:", err)
		os.Exit(1)
	}
	defer db.Close()

	src, closeCache, err := puzzles.Open(ctx, cfg, db)
	if err != nil {
		fmt.Println("Error opening puzzle cache:", err)
		os.Exit(1)
	}
	defer closeCache()
	st := store.NewSQLiteStore(db)

	if *list {
		if err := printList(ctx, os.Stdout, st, time.Now(), cfg.PageSize); err != nil {
			fmt.Println("Error listing games:", err)
			os.Exit(1)
		}
		return
	}

	p, err := src.Get(ctx, *date)
	if err != nil {
		fmt.Printf("No puzzle for %s: %v\n", *date, err)
		os.Exit(1)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}
	sess, err := game.New(p,
		game.WithRand(rng),
		game.WithSaver(func(ctx context.Context, date string, s connections.GameState) error {
			return st.Save(ctx, owner, date, s)
		}),
	)
	if err != nil {
		fmt.Println("Error starting game:", err)
		os.Exit(1)
	}
	if saved, err := st.Load(ctx, owner, *date); err == nil {
		sess.Hydrate(saved)
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Msg("load saved game")
	}

	if *plain {
		play(ctx, sess, os.Stdin, os.Stdout)
		return
	}
	if _, err := tea.NewProgram(newBoard(ctx, sess)).Run(); err != nil {
		fmt.Println("Error running board:", err)
		os.Exit(1)
	}
}

func printList(ctx context.Context, w io.Writer, st store.Store, now time.Time, perPage int) error {
	page := daily.Paginate(now, 1, perPage)
	states, err := st.List(ctx, owner, page.Dates)
	if err != nil {
		return err
	}
	for _, d := range page.Dates {
		status := connections.StatusNotStarted
		if s, ok := states[d]; ok {
			status = connections.StatusOf(s)
		}
		fmt.Fprintln(w, renderListLine(d, status))
	}
	return nil
}

// play runs the read-eval-render loop until quit or EOF.
func play(ctx context.Context, sess *game.Session, in io.Reader, out io.Writer) {
	fmt.Fprintln(out, renderBoard(sess.State(), false, -1))
	fmt.Fprintln(out, helpText)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		cmd, err := parseCommand(scanner.Text(), sess.State())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		switch cmd.kind {
		case cmdQuit:
			return
		case cmdHelp:
			fmt.Fprintln(out, helpText)
			continue
		case cmdNone:
			continue
		}
		sess.Dispatch(ctx, cmd.action)
		fmt.Fprintln(out, renderBoard(sess.State(), sess.OneAwayActive(time.Now()), -1))
	}
}

type cmdKind int

const (
	cmdNone cmdKind = iota
	cmdAction
	cmdHelp
	cmdQuit
)

type command struct {
	kind   cmdKind
	action connections.Action
}

// parseCommand turns an input line into an action. Card words are matched
// case-insensitively against the cards still on the board.
func parseCommand(line string, st connections.GameState) (command, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	act := func(t connections.ActionType) (command, error) {
		return command{kind: cmdAction, action: connections.Action{Type: t}}, nil
	}
	word := func(t connections.ActionType) (command, error) {
		if arg == "" {
			return command{}, fmt.Errorf("%s needs a word", verb)
		}
		for _, c := range st.Cards {
			if strings.EqualFold(c.Word, arg) {
				return command{kind: cmdAction, action: connections.Action{Type: t, Word: c.Word}}, nil
			}
		}
		return command{}, fmt.Errorf("no card %q on the board", arg)
	}

	switch strings.ToLower(verb) {
	case "":
		return command{kind: cmdNone}, nil
	case "s", "select":
		return word(connections.ActionSelectWord)
	case "d", "deselect":
		return word(connections.ActionDeselectWord)
	case "clear", "deselect-all":
		return act(connections.ActionDeselectAll)
	case "shuffle":
		return act(connections.ActionShuffle)
	case "submit":
		return act(connections.ActionSubmitGuess)
	case "reset":
		return act(connections.ActionReset)
	case "help", "?":
		return command{kind: cmdHelp}, nil
	case "q", "quit", "exit":
		return command{kind: cmdQuit}, nil
	}
	return command{}, fmt.Errorf("unknown command %q (try help)", verb)
}
