package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/apiapp/internal/client/client"
	"github.com/dmitrijs2005/apiapp/internal/common"
)

var errUsage = errors.New("usage")

// pageArgs reads the optional "[skip] [limit]" arguments.
func pageArgs(args []string) (skip, limit int, err error) {
	vals := []*int{&skip, &limit}
	for i, arg := range args {
		if i >= len(vals) {
			return 0, 0, fmt.Errorf("%w: [skip] [limit]", errUsage)
		}
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			return 0, 0, fmt.Errorf("%w: [skip] [limit]", errUsage)
		}
		*vals[i] = v
	}
	return skip, limit, nil
}

func idArg(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := common.ParseID(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	return id, nil
}

func (a *App) printUsers(users ...client.User) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tSUPERUSER")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%t\n", u.ID, u.Email, u.Superuser)
	}
	_ = w.Flush()
}

// Me shows the logged-in user.
func (a *App) Me(ctx context.Context, _ []string) error {
	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	a.printUsers(*u)
	return nil
}

// Users lists users: users [skip] [limit].
func (a *App) Users(ctx context.Context, args []string) error {
	skip, limit, err := pageArgs(args)
	if err != nil {
		return err
	}
	us, err := a.client.ListUsers(ctx, skip, limit)
	if err != nil {
		return err
	}
	a.printUsers(us...)
	return nil
}

// User shows one user: user <id>.
func (a *App) User(ctx context.Context, args []string) error {
	id, err := idArg(args, "user <id>")
	if err != nil {
		return err
	}
	u, err := a.client.GetUser(ctx, id)
	if err != nil {
		return err
	}
	a.printUsers(*u)
	return nil
}

// AddUser prompts for an email and password and creates the account.
// Only a superuser may do this.
func (a *App) AddUser(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.client.CreateUser(ctx, email, password)
	if err != nil {
		return err
	}
	a.printUsers(*u)
	return nil
}
