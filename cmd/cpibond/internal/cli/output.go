package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/meenmo/cpilib/utils"
)

// textWriter renders one result in text format.
type textWriter interface {
	writeText(w io.Writer) error
}

// emit writes v as indented JSON or as text, depending on --format.
func emit(w io.Writer, opts *RootOptions, v textWriter) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return v.writeText(w)
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func date(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return utils.FormatDate(d)
}

type nodeJSON struct {
	Date     string  `json:"date"`
	ZeroRate float64 `json:"zero_rate"`
}

type curveJSON struct {
	TaskID        string     `json:"task_id"`
	Source        string     `json:"source"`
	Index         string     `json:"index"`
	ReferenceDate string     `json:"reference_date"`
	BaseDate      string     `json:"base_date"`
	Nodes         []nodeJSON `json:"nodes"`
}

type curveOutput struct {
	Curves []curveJSON `json:"curves"`
}

func (o curveOutput) writeText(w io.Writer) error {
	for i, c := range o.Curves {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s reference %s base %s (task %s)\n",
			c.Source, c.Index, c.ReferenceDate, c.BaseDate, c.TaskID)
		err := table(w, "DATE\tZERO RATE", func(tw *tabwriter.Writer) {
			for _, n := range c.Nodes {
				fmt.Fprintf(tw, "%s\t%.10f\n", n.Date, n.ZeroRate)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type priceJSON struct {
	ID         string  `json:"id"`
	Settlement string  `json:"settlement_date"`
	Clean      float64 `json:"clean_price"`
	Dirty      float64 `json:"dirty_price"`
	Accrued    float64 `json:"accrued"`
	NPV        float64 `json:"npv"`
}

type priceOutput struct {
	EvaluationDate string      `json:"evaluation_date"`
	Bonds          []priceJSON `json:"bonds"`
}

func (o priceOutput) writeText(w io.Writer) error {
	fmt.Fprintf(w, "evaluation date %s\n", o.EvaluationDate)
	return table(w, "BOND\tSETTLEMENT\tCLEAN\tDIRTY\tACCRUED\tNPV", func(tw *tabwriter.Writer) {
		for _, b := range o.Bonds {
			fmt.Fprintf(tw, "%s\t%s\t%.8f\t%.8f\t%.8f\t%.2f\n",
				b.ID, b.Settlement, b.Clean, b.Dirty, b.Accrued, b.NPV)
		}
	})
}

type yieldJSON struct {
	ID          string  `json:"id"`
	Settlement  string  `json:"settlement_date"`
	Yield       string  `json:"yield"`
	Clean       float64 `json:"clean_price"`
	Dirty       float64 `json:"dirty_price"`
	Duration    float64 `json:"modified_duration"`
	ImpliedRate float64 `json:"implied_yield"`
	Iterations  int     `json:"iterations"`
}

type yieldOutput struct {
	Bonds []yieldJSON `json:"bonds"`
}

func (o yieldOutput) writeText(w io.Writer) error {
	return table(w, "BOND\tSETTLEMENT\tYIELD\tCLEAN\tDIRTY\tDURATION\tIMPLIED\tITER", func(tw *tabwriter.Writer) {
		for _, b := range o.Bonds {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.8f\t%.8f\t%.6f\t%.10f\t%d\n",
				b.ID, b.Settlement, b.Yield, b.Clean, b.Dirty, b.Duration, b.ImpliedRate, b.Iterations)
		}
	})
}

type fixingsOutput struct {
	Index string `json:"index"`
	Saved int    `json:"saved"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

func (o fixingsOutput) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %d fixings stored (%s to %s)\n", o.Index, o.Saved, o.First, o.Last)
	return err
}
