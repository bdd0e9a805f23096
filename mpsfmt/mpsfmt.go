// Package mpsfmt renders a compile.Compiled matrix as fixed-column MPS
// text, an external consumer of package compile per the pipeline's layering.
//
// Grounded on original_source/src/mps/mod.rs's print_name/print_rows/
// print_cols/print_rhs/print_bounds: the exact column spacing below is
// copied from those format strings rather than reflowed to a generic
// tabular writer, since MPS is a fixed-format file convention many solvers
// parse positionally.
package mpsfmt

import (
	"fmt"
	"io"

	"github.com/lgsolve/mosox/compile"
	"github.com/lgsolve/mosox/gmpl"
)

// Write serialises c to w as a complete MPS listing: NAME, ROWS, COLUMNS,
// RHS, BOUNDS, ENDATA.
func Write(w io.Writer, c *compile.Compiled) error {
	writers := []func(io.Writer, *compile.Compiled) error{
		writeName,
		writeRows,
		writeColumns,
		writeRHS,
		writeBounds,
	}

	for _, fn := range writers {
		if err := fn(w, c); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "ENDATA")

	return err
}

func writeName(w io.Writer, _ *compile.Compiled) error {
	_, err := fmt.Fprintln(w, "NAME          noname")

	return err
}

func writeRows(w io.Writer, c *compile.Compiled) error {
	if _, err := fmt.Fprintln(w, "ROWS"); err != nil {
		return err
	}

	var werr error

	c.EachRow(func(row gmpl.RowKey, entry compile.RowEntry) {
		if werr != nil {
			return
		}

		_, werr = fmt.Fprintf(w, " %s  %s\n", entry.Type.String(), row.String())
	})

	return werr
}

func writeColumns(w io.Writer, c *compile.Compiled) error {
	if _, err := fmt.Fprintln(w, "COLUMNS"); err != nil {
		return err
	}

	var werr error

	c.EachCol(func(col gmpl.ColKey, entries []compile.ColEntry) {
		if werr != nil {
			return
		}

		for _, e := range entries {
			_, werr = fmt.Fprintf(w, "    %s      %s         %s\n", col.String(), e.Row.String(), formatNum(e.Coeff))
			if werr != nil {
				return
			}
		}
	})

	return werr
}

func writeRHS(w io.Writer, c *compile.Compiled) error {
	if _, err := fmt.Fprintln(w, "RHS"); err != nil {
		return err
	}

	var werr error

	c.EachRow(func(row gmpl.RowKey, entry compile.RowEntry) {
		if werr != nil || entry.RHS == nil {
			return
		}

		_, werr = fmt.Fprintf(w, "    RHS1      %s       %s\n", row.String(), formatNum(*entry.RHS))
	})

	return werr
}

func writeBounds(w io.Writer, c *compile.Compiled) error {
	if _, err := fmt.Fprintln(w, "BOUNDS"); err != nil {
		return err
	}

	var werr error

	c.EachBound(func(col gmpl.ColKey, b compile.BoundEntry) {
		if werr != nil {
			return
		}

		if b.Val == nil {
			_, werr = fmt.Fprintf(w, " %s BND1     %s\n", b.Op.String(), col.String())

			return
		}

		_, werr = fmt.Fprintf(w, " %s BND1     %s         %s\n", b.Op.String(), col.String(), formatNum(*b.Val))
	})

	return werr
}

func formatNum(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}

	return fmt.Sprintf("%g", f)
}
