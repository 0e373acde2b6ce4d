// Package advisor asks a generative model for a short monthly financial plan.
package advisor

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/flowfinance"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.5-flash"
	// MaxTransactions is the number of recent transactions shown to the model.
	MaxTransactions = 50
	// NoAdvice is returned when the model answers nothing.
	NoAdvice = "Jelenleg nem tudok tanácsot generálni."
	// Apology is returned when the model cannot be reached.
	Apology = "Sajnálom, nem tudok most elemzést készíteni. Kérlek ellenőrizd az internetkapcsolatot."
)

//go:embed prompt.tmpl
var promptText string

var promptTemplate = template.Must(template.New("prompt").Parse(promptText))

// Generator turns a prompt into a text answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor writes advice about a State using a Generator.
type Advisor struct {
	Generator Generator
	Log       zerolog.Logger
}

// New returns an Advisor over g.
func New(g Generator) *Advisor { return &Advisor{Generator: g, Log: zerolog.Nop()} }

// Advise returns a markdown advice about state s, with SOL valued at usdPrice.
//
// It never fails: an empty answer becomes NoAdvice and any error becomes Apology.
func (a *Advisor) Advise(ctx context.Context, s flowfinance.State, usdPrice decimal.Decimal) string {
	prompt, err := Prompt(s, usdPrice)
	if err != nil {
		a.Log.Error().Err(err).Msg("cannot build the advice prompt")
		return Apology
	}
	answer, err := a.Generator.Generate(ctx, prompt)
	if err != nil {
		a.Log.Error().Err(err).Msg("advice generation failed")
		return Apology
	}
	if strings.TrimSpace(answer) == "" {
		return NoAdvice
	}
	return answer
}

type (
	balanceLine struct{ Label, Value string }
	txLine      struct{ Date, Kind, Amount, Category string }
	goalLine    struct{ Kind, Target, Category string }
)

// Prompt returns the prompt describing state s to the model.
func Prompt(s flowfinance.State, usdPrice decimal.Decimal) (string, error) {
	data := struct {
		Balances                     []balanceLine
		Crypto, CryptoUSD, CryptoHUF string
		NetWorth                     string
		Transactions                 []txLine
		Goals                        []goalLine
	}{
		Crypto:    s.Crypto.String(),
		CryptoUSD: s.Crypto.Mul(usdPrice).StringFixed(2),
		CryptoHUF: amount(flowfinance.CryptoValue(s.Crypto, usdPrice, s.ConversionRate())),
		NetWorth:  amount(flowfinance.NetWorth(s.Balances, s.Crypto, usdPrice, s.ConversionRate())),
	}
	for acc, v := range s.Balances.All() {
		data.Balances = append(data.Balances, balanceLine{Label: acc.Label(), Value: amount(v)})
	}
	txs := s.Transactions()
	for _, tx := range txs[:min(MaxTransactions, len(txs))] {
		data.Transactions = append(data.Transactions, txLine{
			Date:     tx.Date.String(),
			Kind:     strings.ToUpper(string(tx.Kind)),
			Amount:   amount(tx.Amount),
			Category: tx.Category,
		})
	}
	for _, g := range s.Goals {
		kind := "Cél"
		if g.Kind == flowfinance.SpendingLimit {
			kind = "Limit"
		}
		data.Goals = append(data.Goals, goalLine{Kind: kind, Target: amount(g.TargetAmount), Category: g.Category})
	}
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("cannot render prompt: %w", err)
	}
	return buf.String(), nil
}

// amount formats m as a plain number.
func amount(m flowfinance.Money) string { return m.Decimal().Round(2).String() }
