package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/honeynil/bankfront/internal/config"
	"github.com/honeynil/bankfront/internal/infrastructure/bankapi"
	"github.com/honeynil/bankfront/internal/infrastructure/kafka"
	"github.com/honeynil/bankfront/internal/infrastructure/observability"
	"github.com/honeynil/bankfront/internal/normalize"
	"github.com/honeynil/bankfront/internal/repository"
	core "github.com/honeynil/bankfront/internal/repository/postgres"
	service "github.com/honeynil/bankfront/internal/services"
	"github.com/honeynil/bankfront/internal/session"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"
)

// cliSessionID names the single session a terminal user has.
const cliSessionID = "cli"

// errRejected is returned after the bank's own message was printed.
var errRejected = errors.New("rejected")

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// env is what every command runs against.
type env struct {
	svc     service.BankService
	sess    *session.Session
	loc     *time.Location
	out     io.Writer
	json    bool
	closers []func() error
}

func newApp(out, errOut io.Writer) *cli.App {
	e := &env{out: out}
	return &cli.App{
		Name:      "bankcli",
		Usage:     "digital banking from the terminal",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "bank API base URL", EnvVars: []string{"BANK_API_URL"}},
			&cli.StringFlag{Name: "state", Usage: "file holding the signed-in user", EnvVars: []string{"BANKCLI_STATE"}},
			&cli.StringFlag{Name: "activity-dsn", Usage: "Postgres DSN of the activity log", EnvVars: []string{"ACTIVITY_DSN"}},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of tables"},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c, errOut)
		},
		After: func(*cli.Context) error {
			return e.close()
		},
		ExitErrHandler: func(*cli.Context, error) {},
		Commands:       e.commands(),
	}
}

func (e *env) setup(c *cli.Context, errOut io.Writer) error {
	observability.InitLogger(errOut, slog.LevelWarn)
	cfg := config.Load()
	if u := c.String("api-url"); u != "" {
		cfg.BankAPIURL = u
	}

	path := c.String("state")
	if path == "" {
		p, err := session.DefaultFilePath()
		if err != nil {
			return err
		}
		path = p
	}
	sess, err := session.Restore(c.Context, cliSessionID, session.NewFileStore(path))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var publisher kafka.ActivityPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.ActivityTopic)
		e.closers = append(e.closers, producer.Close)
		publisher = producer
	}

	var activityRepo repository.ActivityRepository
	if dsn := c.String("activity-dsn"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to open activity database: %w", err)
		}
		e.closers = append(e.closers, db.Close)
		activityRepo = core.NewPostgresActivityRepository(db)
	}

	client := bankapi.NewClient(cfg.BankAPIURL, cfg.BankAPITimeout)
	e.svc = service.NewBankService(client, normalize.New(cfg.Location), publisher, activityRepo)
	e.sess = sess
	e.loc = cfg.Location
	e.json = c.Bool("json")
	return nil
}

func (e *env) close() error {
	var errs []error
	for _, fn := range e.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}
