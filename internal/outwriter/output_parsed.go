package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/olekukonko/tablewriter"
)

// QueryPlan is the parse preview of a query: its structured form and the subqueries it decomposes into.
type QueryPlan struct {
	Parsed     schema.ParsedQuery `json:"parsed"`
	Subqueries []schema.Subquery  `json:"subqueries"`
}

// WriteQueryPlan outputs a parse preview, dispatching based on the output format configured.
func WriteQueryPlan(plan QueryPlan, cfg *contract.Config) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, plan)
		}, "Wrote JSON query plan")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVQueryPlan(w, plan, fmtFloat)
		}, "Wrote CSV query plan")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not available for query plans")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeQueryPlanText(w, plan, fmtFloat)
		}, "Wrote query plan")
	}
}

// writeCSVQueryPlan writes one row per subquery.
func writeCSVQueryPlan(w io.Writer, plan QueryPlan, fmtFloat func(float64) string) error {
	header := []string{"subquery", "label", "from", "to", "weight", "terms", "intent", "scope", "entities"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, sq := range plan.Subqueries {
			rec := []string{
				sq.ID,
				sq.Label,
				sq.From,
				sq.To,
				fmtFloat(sq.Weight),
				strings.Join(sq.Terms, "|"),
				string(plan.Parsed.Intent),
				string(plan.Parsed.Scope),
				strings.Join(plan.Parsed.Entities, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeQueryPlanText prints the parsed fields followed by a subquery table.
func writeQueryPlanText(w io.Writer, plan QueryPlan, fmtFloat func(float64) string) error {
	p := plan.Parsed
	lines := []struct {
		name  string
		value string
	}{
		{"Query", p.Raw},
		{"Normalized", p.Normalized},
		{"Terms", strings.Join(p.Terms, ", ")},
		{"Intent", string(p.Intent)},
		{"Scope", string(p.Scope)},
		{"Entities", strings.Join(p.Entities, ", ")},
		{"Window", fmt.Sprintf("%s [%s .. %s]", p.Time.Preset, orOpen(p.Time.From), orOpen(p.Time.To))},
	}
	if len(p.Countries) > 0 {
		lines = append(lines, struct {
			name  string
			value string
		}{"Countries", strings.Join(p.Countries, ", ")})
	}
	if p.NarrativeID != nil {
		lines = append(lines, struct {
			name  string
			value string
		}{"Narrative", fmt.Sprintf("%d", *p.NarrativeID)})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-11s %s\n", l.name+":", l.value); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Subquery", "Label", "From", "To", "Weight"})
	var data [][]string
	for _, sq := range plan.Subqueries {
		data = append(data, []string{sq.ID, sq.Label, orOpen(sq.From), orOpen(sq.To), fmtFloat(sq.Weight)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
