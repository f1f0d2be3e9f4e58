package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
)

// signalDescriptions explains each fusion signal in one line.
var signalDescriptions = map[schema.SignalKey]string{
	schema.SignalLexical:     "Share of query terms found in the title (long terms weigh more)",
	schema.SignalVector:      "Cosine similarity of hashed term-frequency vectors",
	schema.SignalGraph:       "Knowledge-graph entities of the query that appear in the document",
	schema.SignalTemporal:    "Step function of publication age in days",
	schema.SignalConsistency: "Agreement with the pool's median sentiment and source frequency",
	schema.SignalCentrality:  "Mean capped degree of the matched graph entities",
	schema.SignalTrust:       "Reliability of the publishing source",
}

// WeightRow is one fusion signal with its active weight.
type WeightRow struct {
	Signal      schema.SignalKey `json:"signal"`
	Weight      float64          `json:"weight"`
	Default     float64          `json:"default"`
	Customized  bool             `json:"customized"`
	Description string           `json:"description"`
}

// WeightsModel is the rendered view of the fusion formula.
type WeightsModel struct {
	Formula string      `json:"formula"`
	Signals []WeightRow `json:"signals"`
}

// buildWeightsModel lists the signals in fusion order with their active weights.
func buildWeightsModel(cfg *contract.Config) WeightsModel {
	defaults := schema.GetDefaultWeights()
	active := cfg.Engine.Weights
	if active == nil {
		active = defaults
	}

	model := WeightsModel{Signals: make([]WeightRow, 0, len(schema.AllSignals))}
	var parts []string
	for _, key := range schema.AllSignals {
		_, customized := cfg.CustomWeights[key]
		row := WeightRow{
			Signal:      key,
			Weight:      active[key],
			Default:     defaults[key],
			Customized:  customized,
			Description: signalDescriptions[key],
		}
		model.Signals = append(model.Signals, row)
		if row.Weight > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", row.Weight, key))
		}
	}
	model.Formula = "score = " + strings.Join(parts, " + ")
	return model
}

// WriteWeights displays the active fusion weights. It does not need any documents.
func WriteWeights(cfg *contract.Config) error {
	model := buildWeightsModel(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWeights(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not available for weights")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsText(w, model)
		}, "Wrote text")
	}
}

func writeCSVWeights(w io.Writer, model WeightsModel) error {
	header := []string{"signal", "weight", "default", "customized", "description"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range model.Signals {
			rec := []string{
				string(row.Signal),
				fmt.Sprintf("%.4f", row.Weight),
				fmt.Sprintf("%.4f", row.Default),
				fmt.Sprintf("%t", row.Customized),
				row.Description,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeWeightsText(w io.Writer, model WeightsModel) error {
	if _, err := fmt.Fprintf(w, "Newsline Fusion Weights\n=======================\n\n%s\n\n", model.Formula); err != nil {
		return err
	}
	for _, row := range model.Signals {
		marker := ""
		if row.Customized {
			marker = fmt.Sprintf(" (default %.2f)", row.Default)
		}
		if _, err := fmt.Fprintf(w, "%-12s %.2f%s\n   %s\n", row.Signal, row.Weight, marker, row.Description); err != nil {
			return err
		}
	}
	return nil
}
