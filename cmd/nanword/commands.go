package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wippyai/nantag"
	"github.com/wippyai/nantag/codec"
	"github.com/wippyai/nantag/resource"
	"github.com/wippyai/nantag/store"
)

func newEncodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <float>...",
		Short: "Encode floats as tagged words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				v, err := parseFloat(arg)
				if err != nil {
					return err
				}
				w := codec.EncodeFloat(v)
				note := ""
				if canonicalized(v, w) {
					note = "canonicalized"
				}
				rows = append(rows, []string{arg, w.String(), w.Class().String(), note})
			}
			return writeTable(cmd.OutOrStdout(), opts.styled(), []string{"Input", "Word", "Class", "Note"}, rows)
		},
	}
}

func newDecodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <word>...",
		Short: "Classify and decode raw words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				w, err := parseWord(arg)
				if err != nil {
					return err
				}
				info := describeWord(w)
				rows = append(rows, []string{arg, w.String(), info.Class.String(), info.Value, info.validity()})
			}
			return writeTable(cmd.OutOrStdout(), opts.styled(), []string{"Input", "Word", "Class", "Value", "Valid"}, rows)
		},
	}
}

func newStackCmd(opts *options) *cobra.Command {
	var pages uint32

	cmd := &cobra.Command{
		Use:   "stack <value>...",
		Short: "Push values into a linear-memory store and dump it",
		Long: "Numbers are stored as floats and anything else as an owned string. " +
			"The words are written to a wazero linear memory, dumped, then taken back and freed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := runStack(cmd.Context(), pages, args)
			if err != nil {
				return err
			}
			if err := writeTable(cmd.OutOrStdout(), opts.styled(), []string{"Index", "Word", "Class", "Value"}, rows); err != nil {
				return err
			}

			st := resource.Default().Stats()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "allocs=%d frees=%d live=%d\n", st.Allocs, st.Frees, st.Live)
			return err
		},
	}

	cmd.Flags().Uint32Var(&pages, "pages", 1, "linear memory size in 64KiB pages")
	return cmd
}

// runStack stores args in a fresh linear memory and returns the dump rows.
// Every owned value is freed before it returns.
func runStack(ctx context.Context, pages uint32, args []string) (rows [][]string, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	mem, err := store.NewLinearMemory(ctx, &store.Config{Pages: pages})
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := mem.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	st, err := store.New(mem, 0, len(args))
	if err != nil {
		return nil, err
	}
	defer drainOwned(st)

	for i, arg := range args {
		if v, perr := strconv.ParseFloat(arg, 64); perr == nil {
			err = st.Put(i, codec.EncodeFloat(v))
		} else {
			o := nantag.NewOwned(arg)
			if err = store.PutOwned(st, i, &o); err != nil {
				o.Free()
			}
		}
		if err != nil {
			return nil, err
		}
	}

	var berr error
	err = st.Each(func(i int, w codec.Word) bool {
		value := strconv.FormatFloat(w.Float(), 'g', -1, 64)
		if w.IsPointer() {
			var b nantag.Borrowed[string]
			if b, berr = store.GetBorrowed[string](st, i); berr != nil {
				return false
			}
			s, _ := b.AsRef()
			value = strconv.Quote(*s)
		}
		rows = append(rows, []string{strconv.Itoa(i), w.String(), w.Class().String(), value})
		return true
	})
	if err == nil {
		err = berr
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// drainOwned takes every owned string out of st and frees it.
func drainOwned(st *store.Store) {
	for i := 0; i < st.Len(); i++ {
		w, err := st.Get(i)
		if err != nil || !w.IsPointer() {
			continue
		}
		o, err := store.TakeOwned[string](st, i)
		if err != nil {
			continue
		}
		o.Free()
	}
}
