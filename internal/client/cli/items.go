package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/items"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// List loads the inventory and prints it with per-currency totals.
func (a *App) List(ctx context.Context, _ []string) error {
	list, err := a.view.Load(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No items yet. Use 'add' to register one.")
		return nil
	}
	printItems(a.out, list)
	return nil
}

func printItems(w io.Writer, list []models.Item) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tVALUE\tFILES")
	for _, it := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", it.ID, it.Name, deref(it.Category), formatValue(it), len(it.Attachments))
	}
	_ = tw.Flush()

	totals := items.Totals(list)
	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	for _, c := range currencies {
		fmt.Fprintf(w, "Total %s: %.2f\n", c, totals[c])
	}
}

func formatValue(it models.Item) string {
	if it.Value == nil {
		return "-"
	}
	cur := it.Currency
	if cur == "" {
		cur = models.DefaultCurrency
	}
	return fmt.Sprintf("%.2f %s", *it.Value, cur)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Show prints one item as stored on the server.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: show <id>")
	}
	it, err := a.guard.Get(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  %s\n", it.ID, it.Name)
	for _, f := range []struct{ k, v string }{
		{"Category", deref(it.Category)},
		{"Serial number", deref(it.SerialNumber)},
		{"Note", deref(it.Note)},
		{"Value", formatValue(it)},
	} {
		if f.v != "" {
			fmt.Fprintf(a.out, "  %-14s %s\n", f.k+":", f.v)
		}
	}
	for _, u := range it.Attachments {
		fmt.Fprintf(a.out, "  attachment:    %s\n", u)
	}
	return nil
}

// inputForm asks for every field of in, keeping current values on blank
// answers.
func (a *App) inputForm(in models.ItemInput) (models.ItemInput, error) {
	name := in.Name
	prompt := "Name"
	if name != "" {
		prompt = fmt.Sprintf("Name [%s]", name)
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return in, err
	}
	if s != "" {
		in.Name = s
	}

	if in.Category, err = GetOptional(a.reader, "Category", in.Category, a.out); err != nil {
		return in, err
	}
	if in.SerialNumber, err = GetOptional(a.reader, "Serial number", in.SerialNumber, a.out); err != nil {
		return in, err
	}
	if in.Note, err = GetOptional(a.reader, "Note", in.Note, a.out); err != nil {
		return in, err
	}

	var cur *string
	if in.Value != nil {
		v := fmt.Sprintf("%.2f", *in.Value)
		cur = &v
	}
	raw, err := GetOptional(a.reader, "Value", cur, a.out)
	if err != nil {
		return in, err
	}
	switch {
	case raw == nil:
		in.Value = nil
	case raw != cur:
		v, err := ParseAmount(*raw)
		if err != nil {
			return in, err
		}
		in.Value = &v
	}

	currency := in.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	c, err := getSimpleText(a.reader, fmt.Sprintf("Currency [%s]", currency), a.out)
	if err != nil {
		return in, err
	}
	if c != "" {
		in.Currency = strings.ToUpper(c)
	}

	urls, err := GetLines(a.reader, "Attachment URLs to add", a.out)
	if err != nil {
		return in, err
	}
	in.Attachments = append(in.Attachments, urls...)
	return in, nil
}

// Add registers a new item. A form submitted while signed out is kept as
// a draft.
func (a *App) Add(ctx context.Context, _ []string) error {
	in, err := a.inputForm(models.ItemInput{})
	if err != nil {
		return err
	}
	return a.submit(ctx, "", in)
}

// Edit loads the authoritative record, then asks for changes.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: edit <id>")
	}
	it, err := a.guard.Get(ctx, args[0])
	if err != nil {
		return err
	}
	in, err := a.inputForm(it.Input())
	if err != nil {
		return err
	}
	return a.submit(ctx, it.ID, in)
}

func (a *App) submit(ctx context.Context, itemID string, in models.ItemInput) error {
	// an unsettled state would block the mutation for no reason
	if _, err := a.ensureResolved(ctx); err != nil {
		return err
	}

	it, draft, err := a.draftService.Submit(ctx, itemID, in)
	if draft != nil {
		a.notifier.Info(fmt.Sprintf("Not signed in. Saved as draft %s; run 'submit-draft %s' after signing in.", draft.ID, draft.ID))
		return notified(err)
	}
	if err != nil {
		return err
	}
	if itemID == "" {
		a.notifier.Success(fmt.Sprintf("Added %s (%s).", it.Name, it.ID))
	} else {
		a.notifier.Success(fmt.Sprintf("Updated %s.", it.Name))
	}
	return nil
}

// Delete removes an item after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: delete <id>")
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s? (y/N)", args[0]), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if _, err := a.ensureResolved(ctx); err != nil {
		return err
	}
	if err := a.view.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.notifier.Success("Item deleted.")
	return nil
}

// Attach uploads a file and appends its URL to an item.
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: attach <id> <file>")
	}
	if _, err := a.ensureResolved(ctx); err != nil {
		return err
	}
	it, err := a.guard.Get(ctx, args[0])
	if err != nil {
		return err
	}
	url, err := a.uploader.UploadFile(ctx, args[1])
	if err != nil {
		if errors.Is(err, auth.ErrAuthRequired) {
			return errors.New("sign in to upload attachments")
		}
		return err
	}

	in := it.Input()
	in.Attachments = append(in.Attachments, url)
	return a.submit(ctx, it.ID, in)
}

// Drafts lists forms kept while signed out.
func (a *App) Drafts(ctx context.Context, _ []string) error {
	list, err := a.draftService.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No drafts.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DRAFT\tKIND\tNAME\tSAVED")
	for _, d := range list {
		kind := "new"
		if d.ItemID != "" {
			kind = "edit " + d.ItemID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, kind, d.Input.Name, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// SubmitDraft sends a stored draft.
func (a *App) SubmitDraft(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: submit-draft <id>")
	}
	if _, err := a.ensureResolved(ctx); err != nil {
		return err
	}
	it, err := a.draftService.Resubmit(ctx, args[0])
	if err != nil {
		return err
	}
	a.notifier.Success(fmt.Sprintf("Draft submitted as %s (%s).", it.Name, it.ID))
	return nil
}

// DiscardDraft drops a stored draft.
func (a *App) DiscardDraft(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: discard-draft <id>")
	}
	if err := a.draftService.Discard(ctx, args[0]); err != nil {
		return err
	}
	a.notifier.Success("Draft discarded.")
	return nil
}
