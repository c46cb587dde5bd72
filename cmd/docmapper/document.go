package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"docmapper/internal/naming"
	"docmapper/storage"
)

func newDocCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "read and write stored documents",
	}

	cmd.AddCommand(newDocGetCommand(a))
	cmd.AddCommand(newDocPutCommand(a))
	cmd.AddCommand(newDocDeleteCommand(a))

	return cmd
}

// withCollection runs fn against a collection of the configured store and
// closes the store afterwards.
func withCollection(a *app, name string, fn func(storage.Collection) error) (err error) {
	store, err := openStore(a)
	if err != nil {
		return err
	}

	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	c, err := store.Collection(name)
	if err != nil {
		return err
	}

	return fn(c)
}

func newDocGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "print a stored document as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCollection(a, args[0], func(c storage.Collection) error {
				doc, ok, err := c.Find(cmd.Context(), args[1])
				if err != nil {
					return err
				}

				if !ok {
					return fmt.Errorf("no document %q in collection %q", args[1], args[0])
				}

				out, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(a.stdout, string(out))

				return err
			})
		},
	}
}

func newDocPutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <collection> <id> [json]",
		Short: "store a JSON document, read from stdin when not given",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = a.stdin
			if len(args) == 3 {
				in = strings.NewReader(args[2])
			}

			data, err := io.ReadAll(in)
			if err != nil {
				return err
			}

			doc, err := storage.Decode(data)
			if err != nil {
				return fmt.Errorf("document: %w", err)
			}

			if _, ok := doc[naming.IDField]; !ok {
				doc[naming.IDField] = args[1]
			}

			return withCollection(a, args[0], func(c storage.Collection) error {
				if err := c.Upsert(cmd.Context(), args[1], doc); err != nil {
					return err
				}

				a.log.Info("stored", zap.String("collection", args[0]), zap.String("id", args[1]))

				return nil
			})
		},
	}
}

func newDocDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "delete a stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCollection(a, args[0], func(c storage.Collection) error {
				return c.Delete(cmd.Context(), args[1])
			})
		},
	}
}
