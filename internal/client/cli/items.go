package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/apiapp/internal/client/client"
)

func (a *App) printItems(items ...client.Item) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tOWNER\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", it.ID, it.Title, it.OwnerID, it.Description)
	}
	_ = w.Flush()
}

// Items lists items: items [skip] [limit].
func (a *App) Items(ctx context.Context, args []string) error {
	skip, limit, err := pageArgs(args)
	if err != nil {
		return err
	}
	items, err := a.client.ListItems(ctx, skip, limit)
	if err != nil {
		return err
	}
	a.printItems(items...)
	return nil
}

func (a *App) readItem() (title, description string, err error) {
	title, err = getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return "", "", err
	}
	description, err = getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return "", "", err
	}
	return title, description, nil
}

// AddItem creates an item owned by the logged-in user.
func (a *App) AddItem(ctx context.Context, _ []string) error {
	title, description, err := a.readItem()
	if err != nil {
		return err
	}
	it, err := a.client.CreateItem(ctx, title, description)
	if err != nil {
		return err
	}
	a.printItems(*it)
	return nil
}

// AddItemFor creates an item for another user: additemfor <id>.
func (a *App) AddItemFor(ctx context.Context, args []string) error {
	ownerID, err := idArg(args, "additemfor <id>")
	if err != nil {
		return err
	}
	title, description, err := a.readItem()
	if err != nil {
		return err
	}
	it, err := a.client.CreateItemForUser(ctx, ownerID, title, description)
	if err != nil {
		return err
	}
	a.printItems(*it)
	return nil
}
