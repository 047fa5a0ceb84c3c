package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/honeynil/bankfront/internal/models"
	service "github.com/honeynil/bankfront/internal/services"
	"github.com/honeynil/bankfront/internal/view"
)

func (e *env) writeJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *env) table() *tabwriter.Writer {
	return tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
}

// placeholder prints the loading/error/empty message of a list with no rows
// to show. It reports whether it printed anything.
func (e *env) placeholder(display view.Display, message string) bool {
	if display == view.DisplayData {
		return false
	}
	fmt.Fprintln(e.out, message)
	return true
}

// rejected ends a list command whose fetch the bank refused.
func rejected(display view.Display) error {
	if display == view.DisplayError {
		return errRejected
	}
	return nil
}

func (e *env) renderProfile(p models.Profile) error {
	if e.json {
		return e.writeJSON(p)
	}
	w := e.table()
	fmt.Fprintf(w, "name\t%s\n", p.Name)
	fmt.Fprintf(w, "phone\t%s\n", p.Phone)
	fmt.Fprintf(w, "id\t%s\n", p.IDNum)
	fmt.Fprintf(w, "role\t%s\n", p.RoleLabel)
	fmt.Fprintf(w, "balance\t%s\n", p.Balance)
	if p.Account != nil {
		fmt.Fprintf(w, "account\t%s-%s-%s (%s)\n",
			p.Account.BankNumber, p.Account.BranchNumber, p.Account.AccountNumber, p.Account.AccountOwner)
	}
	return w.Flush()
}

func (e *env) renderTransactions(snap view.Snapshot[models.Transaction]) error {
	if e.json {
		if err := e.writeJSON(snap); err != nil {
			return err
		}
		return rejected(snap.Display)
	}
	if e.placeholder(snap.Display, snap.Message) {
		return rejected(snap.Display)
	}
	w := e.table()
	fmt.Fprintln(w, "DATE\tACTION\tAMOUNT\tDESCRIPTION")
	for _, t := range snap.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.TransactionDate, t.Label(), t.SignedAmount(), t.Description)
	}
	return w.Flush()
}

func (e *env) renderRequests(page service.RequestsPage) error {
	if e.json {
		if err := e.writeJSON(page); err != nil {
			return err
		}
		return rejected(page.Display)
	}
	fmt.Fprintf(e.out, "all %d  pending %d  approved %d  rejected %d\n",
		page.Counts.All, page.Counts.Pending, page.Counts.Approved, page.Counts.Rejected)
	if e.placeholder(page.Display, page.Message) {
		return rejected(page.Display)
	}
	w := e.table()
	fmt.Fprintln(w, "ID\tDATE\tNAME\tPHONE\tAMOUNT\tSTATUS")
	for _, r := range page.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Name, r.Phone, r.Amount, r.Status.Label())
	}
	return w.Flush()
}

func (e *env) renderUsers(snap view.Snapshot[models.AdminUser]) error {
	if e.json {
		if err := e.writeJSON(snap); err != nil {
			return err
		}
		return rejected(snap.Display)
	}
	if e.placeholder(snap.Display, snap.Message) {
		return rejected(snap.Display)
	}
	w := e.table()
	fmt.Fprintln(w, "NAME\tPHONE\tID\tBALANCE\tROLE")
	for _, u := range snap.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Name, u.Phone, u.IDNum, u.Balance, u.RoleLabel)
	}
	return w.Flush()
}

func (e *env) renderActivity(items []models.Activity) error {
	if e.json {
		return e.writeJSON(items)
	}
	w := e.table()
	fmt.Fprintln(w, "TIME\tACTION\tAMOUNT\tWITH\tOK")
	for _, a := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
			a.CreatedAt.In(e.loc).Format(time.DateTime), a.Type, a.Amount, a.Counterparty, a.Success)
	}
	return w.Flush()
}
