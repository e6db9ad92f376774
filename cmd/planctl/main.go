// Command planctl administers a planning installation: it creates accounts,
// loads seed documents, purges expired sessions and prints the agenda.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/humia/planning/internal/config"
	"github.com/humia/planning/internal/logging"
	"github.com/humia/planning/internal/persistence/sqlite"
	"github.com/humia/planning/internal/persistence/sqlite/migration"
)

const usage = `usage: planctl <commande> [options]

commandes:
  adduser   crée un compte administrateur ou invité
  seed      charge un document YAML d'écoles, de formateurs et de sessions
  purge     supprime les sessions de connexion expirées
  agenda    affiche le planning depuis l'API
`

// localEnv is an opened and migrated database with its configuration.
type localEnv struct {
	storage *sqlite.Storage
	config  config.Config
	logger  *slog.Logger
}

type cli struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	readPassword func(prompt string) (string, error)
	openLocal    func(ctx context.Context) (*localEnv, func(), error)
	baseURL      func() (string, error)
}

func main() {
	c := &cli{
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		now:          time.Now,
		readPassword: terminalPassword(os.Stdin, os.Stderr),
		baseURL:      config.LoadClient,
	}
	c.openLocal = c.openConfigured
	os.Exit(c.run(context.Background(), os.Args[1:]))
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "adduser":
		err = c.addUser(ctx, args[1:])
	case "seed":
		err = c.seed(ctx, args[1:])
	case "purge":
		err = c.purge(ctx, args[1:])
	case "agenda":
		err = c.agenda(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(c.stdout, usage)
		return 0
	default:
		fmt.Fprintf(c.stderr, "planctl: commande inconnue %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(c.stderr, "planctl %s: %v\n", args[0], err)
		return 2
	default:
		fmt.Fprintf(c.stderr, "planctl %s: %v\n", args[0], err)
		return 1
	}
}

var errUsage = errors.New("arguments invalides")

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func (c *cli) openConfigured(ctx context.Context) (*localEnv, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(c.stderr, cfg.LogLevel, cfg.LogFormat)

	storage, err := sqlite.Open(migration.DefaultSQLiteConfig(cfg.SQLitePath))
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	if err := storage.Migrate(ctx, logger); err != nil {
		_ = storage.Close()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}
	closeFn := func() {
		if err := storage.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}
	return &localEnv{storage: storage, config: cfg, logger: logger}, closeFn, nil
}

// terminalPassword prompts on stderr and reads without echo when stdin is a
// terminal, or a single line otherwise.
func terminalPassword(stdin *os.File, stderr io.Writer) func(string) (string, error) {
	lines := bufio.NewReader(stdin)
	return func(prompt string) (string, error) {
		fmt.Fprint(stderr, prompt)
		fd := int(stdin.Fd())
		if term.IsTerminal(fd) {
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(stderr)
			if err != nil {
				return "", fmt.Errorf("lecture du mot de passe: %w", err)
			}
			return string(raw), nil
		}
		line, err := lines.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("lecture du mot de passe: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
