package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/dashboard"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/store"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/table"
	"github.com/Mogeshaue/Happy-Fox-sub000/services/api"
)

// newStore returns a store talking to the configured backend with the given token.
func (cli *commandLine) newStore(ctx context.Context, token string) (*store.Store, error) {
	client, err := apisvc.NewClient(ctx, apisvc.Options{
		BaseURL: cli.conf.API.BaseURL,
		Token:   token,
		Timeout: cli.conf.API.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return store.New(client.Endpoints(entity.AllTypes)), nil
}

// parsePairs turns key=value arguments into a create payload.
func parsePairs(args []string) (map[string]string, error) {
	payload := make(map[string]string, len(args))
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, errors.Errorf("invalid attribute %q, expected key=value", arg)
		}
		payload[kv[0]] = kv[1]
	}
	return payload, nil
}

// list prints the collection of t with the dashboard's columns.
func (cli *commandLine) list(token string, t entity.Type) error {
	tab, ok := dashboard.DefaultRegistry(cli.conf.DateFormat).Tab(t)
	if !ok {
		return errors.Wrap(store.ErrUnknownType, string(t))
	}

	ctx := context.Background()
	st, err := cli.newStore(ctx, token)
	if err != nil {
		return err
	}
	// referenced collections only label foreign keys; their failures are not fatal
	_ = st.FetchAll(ctx)
	if msg := st.Status(t, store.OpFetch).Err; msg != "" {
		return errors.New(msg)
	}

	v := table.New(tab.Columns(st), st.Collection(t), false, nil).View()
	if v.Empty {
		fmt.Fprintln(cli.out, v.EmptyMessage)
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\t"+strings.Join(v.Headers, "\t"))
	for _, row := range v.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.ID)
		for _, c := range row.Cells {
			cells = append(cells, c.Text)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

func (cli *commandLine) create(token string, t entity.Type, payload map[string]string) error {
	ctx := context.Background()
	st, err := cli.newStore(ctx, token)
	if err != nil {
		return err
	}
	if err = st.Create(ctx, t, payload); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s: created\n", t)
	return nil
}

func (cli *commandLine) delete(token string, t entity.Type, id string) error {
	ctx := context.Background()
	st, err := cli.newStore(ctx, token)
	if err != nil {
		return err
	}
	if err = st.Delete(ctx, t, id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s %s: deleted\n", t, id)
	return nil
}
