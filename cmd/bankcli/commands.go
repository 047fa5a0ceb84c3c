package main

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/honeynil/bankfront/internal/models"
	service "github.com/honeynil/bankfront/internal/services"
	"github.com/urfave/cli/v2"
)

func (e *env) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "sign in with phone, id number and secret code",
			Flags: credentialFlags(),
			Action: func(c *cli.Context) error {
				res, err := e.svc.Login(c.Context, e.sess, credentials(c))
				return e.outcome(res, err)
			},
		},
		{
			Name:  "register",
			Usage: "open a new account and sign in",
			Flags: append(credentialFlags(),
				&cli.StringFlag{Name: "name", Required: true},
				&cli.StringFlag{Name: "bank", Usage: "bank number"},
				&cli.StringFlag{Name: "branch", Usage: "branch number"},
				&cli.StringFlag{Name: "account", Usage: "account number"},
				&cli.StringFlag{Name: "owner", Usage: "account owner, defaults to --name"},
			),
			Action: func(c *cli.Context) error {
				u := credentials(c)
				u.Name = c.String("name")
				u.Account = &models.BankAccount{
					BankNumber:    c.String("bank"),
					BranchNumber:  c.String("branch"),
					AccountNumber: c.String("account"),
					AccountOwner:  c.String("owner"),
				}
				res, err := e.svc.Register(c.Context, e.sess, u)
				return e.outcome(res, err)
			},
		},
		{
			Name:  "logout",
			Usage: "forget the signed-in user",
			Action: func(c *cli.Context) error {
				return e.svc.Logout(c.Context, e.sess)
			},
		},
		{
			Name:  "whoami",
			Usage: "show the signed-in profile",
			Action: func(c *cli.Context) error {
				p, err := e.svc.Profile(e.sess)
				if err != nil {
					return err
				}
				return e.renderProfile(p)
			},
		},
		{
			Name:  "update-profile",
			Usage: "change the name or bank account details",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name"},
				&cli.StringFlag{Name: "bank"},
				&cli.StringFlag{Name: "branch"},
				&cli.StringFlag{Name: "account"},
				&cli.StringFlag{Name: "owner"},
			},
			Action: func(c *cli.Context) error {
				p, err := e.svc.Profile(e.sess)
				if err != nil {
					return err
				}
				res, err := e.svc.UpdateProfile(c.Context, e.sess, profilePatch(c, p.Account))
				return e.outcome(res, err)
			},
		},
		{
			Name:  "balance",
			Usage: "fetch the current balance",
			Action: func(c *cli.Context) error {
				res, err := e.svc.RefreshBalance(c.Context, e.sess)
				if err != nil || !res.Success {
					return e.outcome(res, err)
				}
				p, err := e.svc.Profile(e.sess)
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, p.Balance)
				return nil
			},
		},
		{
			Name:      "deposit",
			Usage:     "deposit money",
			ArgsUsage: "AMOUNT",
			Action: func(c *cli.Context) error {
				res, err := e.svc.Deposit(c.Context, e.sess, c.Args().First())
				return e.outcome(res, err)
			},
		},
		{
			Name:      "withdraw",
			Usage:     "withdraw money",
			ArgsUsage: "AMOUNT",
			Action: func(c *cli.Context) error {
				res, err := e.svc.Withdraw(c.Context, e.sess, c.Args().First())
				return e.outcome(res, err)
			},
		},
		{
			Name:      "transfer",
			Usage:     "send money to another phone number",
			ArgsUsage: "AMOUNT",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "to", Required: true}},
			Action: func(c *cli.Context) error {
				res, err := e.svc.Transfer(c.Context, e.sess, c.String("to"), c.Args().First())
				return e.outcome(res, err)
			},
		},
		{
			Name:      "request",
			Usage:     "ask another phone number for money",
			ArgsUsage: "AMOUNT",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "to", Required: true}},
			Action: func(c *cli.Context) error {
				res, err := e.svc.RequestPayment(c.Context, e.sess, c.String("to"), c.Args().First())
				return e.outcome(res, err)
			},
		},
		{
			Name:  "history",
			Usage: "list account history",
			Flags: listFlags(),
			Action: func(c *cli.Context) error {
				q, err := e.listQuery(c)
				if err != nil {
					return err
				}
				snap, err := e.svc.History(c.Context, e.sess, q)
				if err != nil {
					return err
				}
				return e.renderTransactions(snap)
			},
		},
		{
			Name:  "transactions",
			Usage: "list transactions",
			Flags: listFlags(),
			Action: func(c *cli.Context) error {
				q, err := e.listQuery(c)
				if err != nil {
					return err
				}
				snap, err := e.svc.Transactions(c.Context, e.sess, q)
				if err != nil {
					return err
				}
				return e.renderTransactions(snap)
			},
		},
		{
			Name:  "requests",
			Usage: "list payment requests sent to you",
			Flags: append(listFlags(), statusFlag()),
			Action: func(c *cli.Context) error {
				q, err := e.listQuery(c)
				if err != nil {
					return err
				}
				page, err := e.svc.IncomingRequests(c.Context, e.sess, q, c.String("status"))
				if err != nil {
					return err
				}
				return e.renderRequests(page)
			},
		},
		{
			Name:  "sent",
			Usage: "list payment requests you sent",
			Flags: append(listFlags(), statusFlag()),
			Action: func(c *cli.Context) error {
				q, err := e.listQuery(c)
				if err != nil {
					return err
				}
				page, err := e.svc.SentRequests(c.Context, e.sess, q, c.String("status"))
				if err != nil {
					return err
				}
				return e.renderRequests(page)
			},
		},
		{
			Name:      "approve",
			Usage:     "approve a pending payment request",
			ArgsUsage: "REQUEST_ID",
			Action: func(c *cli.Context) error {
				res, err := e.svc.Respond(c.Context, e.sess, c.Args().First(), true)
				return e.outcome(res, err)
			},
		},
		{
			Name:      "reject",
			Usage:     "reject a pending payment request",
			ArgsUsage: "REQUEST_ID",
			Action: func(c *cli.Context) error {
				res, err := e.svc.Respond(c.Context, e.sess, c.Args().First(), false)
				return e.outcome(res, err)
			},
		},
		{
			Name:  "users",
			Usage: "list all users (admins only)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "sort", Usage: "column to sort by"},
				&cli.StringFlag{Name: "dir", Usage: "asc or desc"},
				&cli.BoolFlag{Name: "reload"},
			},
			Action: func(c *cli.Context) error {
				q, err := e.listQuery(c)
				if err != nil {
					return err
				}
				snap, err := e.svc.Users(c.Context, e.sess, q)
				if err != nil {
					return err
				}
				return e.renderUsers(snap)
			},
		},
		{
			Name:  "activity",
			Usage: "show your recorded actions",
			Flags: []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20}},
			Action: func(c *cli.Context) error {
				items, err := e.svc.Activity(c.Context, e.sess, c.Int("limit"))
				if err != nil {
					return err
				}
				return e.renderActivity(items)
			},
		},
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "phone", Required: true},
		&cli.StringFlag{Name: "id", Usage: "id number", Required: true},
		&cli.StringFlag{Name: "secret", Usage: "secret code", EnvVars: []string{"BANKCLI_SECRET"}},
	}
}

func credentials(c *cli.Context) models.User {
	return models.User{Phone: c.String("phone"), IDNum: c.String("id"), Secret: c.String("secret")}
}

// profilePatch changes only the account fields given on the command line.
func profilePatch(c *cli.Context, current *models.BankAccount) service.ProfilePatch {
	var patch service.ProfilePatch
	if c.IsSet("name") {
		name := c.String("name")
		patch.Name = &name
	}
	if c.IsSet("bank") || c.IsSet("branch") || c.IsSet("account") || c.IsSet("owner") {
		acc := models.BankAccount{}
		if current != nil {
			acc = *current
		}
		set := func(name string, field *string) {
			if c.IsSet(name) {
				*field = c.String(name)
			}
		}
		set("bank", &acc.BankNumber)
		set("branch", &acc.BranchNumber)
		set("account", &acc.AccountNumber)
		set("owner", &acc.AccountOwner)
		patch.Account = &acc
	}
	return patch
}

func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "filter", Usage: "all, today, week, month, three_months or custom"},
		&cli.StringFlag{Name: "start", Usage: "first day of a custom range, YYYY-MM-DD"},
		&cli.StringFlag{Name: "end", Usage: "last day of a custom range, YYYY-MM-DD"},
		&cli.StringFlag{Name: "sort", Usage: "column to sort by"},
		&cli.StringFlag{Name: "dir", Usage: "asc or desc"},
		&cli.BoolFlag{Name: "reload", Usage: "fetch even if nothing changed"},
	}
}

func statusFlag() cli.Flag {
	return &cli.StringFlag{Name: "status", Usage: "all, pending, approved or rejected"}
}

func (e *env) listQuery(c *cli.Context) (service.ListQuery, error) {
	v := url.Values{}
	for _, name := range []string{"filter", "start", "end", "sort", "dir"} {
		if c.IsSet(name) {
			v.Set(name, strings.TrimSpace(c.String(name)))
		}
	}
	if c.Bool("reload") {
		v.Set("reload", "true")
	}
	return service.ParseListQuery(v, e.loc)
}

// outcome prints the message of a finished action. A rejected action exits
// non-zero.
func (e *env) outcome(res service.Outcome, err error) error {
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			fields := make([]string, 0, len(verr.Fields))
			for field := range verr.Fields {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(e.out, "%s: %s\n", field, verr.Fields[field])
			}
		}
		return err
	}
	if e.json {
		if err := e.writeJSON(res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(e.out, res.Message)
	}
	if !res.Success {
		return errRejected
	}
	return nil
}
