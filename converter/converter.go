package converter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"github.com/sig-0/currconv/provider"
	"github.com/sig-0/currconv/storage"
	"github.com/sig-0/currconv/storage/types"
)

const (
	answerYes = "yes"

	// convertedPrecision is the number of decimals kept on stored converted amounts
	convertedPrecision = 6

	msgTitle          = "\nCurrency Converter"
	msgInvalidAmount  = "Invalid amount, please enter a positive number."
	msgInvalidRate    = "Invalid currency code or unable to fetch the rate."
	msgStoreFailed    = "Unable to store the conversion record."
	msgHistoryFailed  = "Unable to load the conversion history."
	msgEmptyHistory   = "No conversions recorded yet."
	msgNotAvailable   = "Data not available"
	promptAmount      = "Enter amount: "
	promptFrom        = "From currency (e.g. USD): "
	promptTo          = "To currency (e.g. EUR): "
	promptViewHistory = "\nWould you like to see your conversion history? (yes/no): "
	promptContinue    = "\nDo you want to convert another currency? (yes/no): "
)

var (
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrRateUnavailable = errors.New("rate unavailable")
)

// state is a step of the interactive loop
type state int

const (
	statePrompting state = iota
	stateExitCheck
	stateDone
)

// Converter is the interactive conversion loop
type Converter struct {
	provider provider.Provider
	storage  storage.Storage
	logger   *slog.Logger
	now      func() time.Time

	in  *bufio.Scanner
	out io.Writer
}

// New creates a new converter on top of the given rate provider and conversion storage
func New(p provider.Provider, s storage.Storage, opts ...Option) *Converter {
	c := &Converter{
		provider: p,
		storage:  s,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("session", xid.New().String())

	return c
}

// Run runs the interactive loop until the user declines to continue,
// or the input is exhausted [BLOCKING]
func (c *Converter) Run(ctx context.Context) error {
	current := statePrompting

	for current != stateDone {
		var err error

		switch current {
		case statePrompting:
			err = c.prompting(ctx)
			current = stateExitCheck
		case stateExitCheck:
			var answer string

			answer, err = c.ask(promptContinue)
			if isYes(answer) {
				current = statePrompting
			} else {
				current = stateDone
			}
		}

		if errors.Is(err, io.EOF) {
			c.logger.Debug("input closed, stopping")

			return nil
		}

		if err != nil {
			return err
		}
	}

	c.logger.Debug("session finished")

	return nil
}

// Convert converts the amount using the live rate and records the conversion.
// On a storage failure the conversion is still returned, alongside the error
func (c *Converter) Convert(
	ctx context.Context,
	amount float64,
	from, to types.Currency,
) (*types.Conversion, error) {
	if !validAmount(amount) {
		return nil, ErrInvalidAmount
	}

	rate, err := c.provider.LiveRate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRateUnavailable, err)
	}

	converted, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(convertedPrecision).
		Float64()

	conversion := &types.Conversion{
		Amount:          amount,
		From:            from,
		To:              to,
		ConvertedAmount: converted,
		Date:            types.Today(c.now()),
	}

	if err := c.storage.SaveConversion(ctx, conversion); err != nil {
		return conversion, fmt.Errorf("unable to store conversion: %w", err)
	}

	c.logger.Info(
		"stored conversion",
		"id", conversion.ID,
		"from", from,
		"to", to,
		"rate", rate,
	)

	return conversion, nil
}

// prompting collects a single conversion request, performs it
// and optionally shows the stored history
func (c *Converter) prompting(ctx context.Context) error {
	c.println(msgTitle)

	amount, err := c.askAmount()
	if err != nil {
		return err
	}

	fromRaw, err := c.ask(promptFrom)
	if err != nil {
		return err
	}

	toRaw, err := c.ask(promptTo)
	if err != nil {
		return err
	}

	c.convertAndReport(ctx, amount, fromRaw, toRaw)

	answer, err := c.ask(promptViewHistory)
	if err != nil {
		return err
	}

	if isYes(answer) {
		c.showHistory(ctx)
	}

	return nil
}

// convertAndReport runs the conversion and prints its outcome,
// followed by the historical rates of the pair
func (c *Converter) convertAndReport(ctx context.Context, amount float64, fromRaw, toRaw string) {
	from, fromErr := types.ParseCurrency(fromRaw)
	to, toErr := types.ParseCurrency(toRaw)

	if err := errors.Join(fromErr, toErr); err != nil {
		c.logger.Debug(
			"invalid currency code",
			"from", fromRaw,
			"to", toRaw,
			"err", err,
		)

		c.println(msgInvalidRate)

		return
	}

	conversion, err := c.Convert(ctx, amount, from, to)
	if conversion == nil {
		c.logger.Debug("conversion failed", "err", err)
		c.println(msgInvalidRate)

		return
	}

	c.printf(
		"%s %s = %.2f %s\n",
		formatAmount(conversion.Amount),
		conversion.From,
		conversion.ConvertedAmount,
		conversion.To,
	)

	if err != nil {
		c.logger.Error("unable to store conversion", "err", err)
		c.println(msgStoreFailed)
	}

	points := c.provider.HistoricalRates(ctx, from, to)

	c.printf("\nLast %d days historical data:\n", len(points))

	for _, point := range points {
		date := point.Date.Format(types.DateLayout)

		if point.Rate == nil {
			c.printf("%s: %s\n", date, msgNotAvailable)

			continue
		}

		c.printf("%s: %.4f\n", date, *point.Rate)
	}
}

// showHistory prints every stored conversion
func (c *Converter) showHistory(ctx context.Context) {
	items, err := c.storage.ListConversions(ctx)
	if err != nil {
		c.logger.Error("unable to list conversions", "err", err)
		c.println(msgHistoryFailed)

		return
	}

	WriteHistory(c.out, items)
}

// askAmount prompts until a positive amount is entered
func (c *Converter) askAmount() (float64, error) {
	for {
		raw, err := c.ask(promptAmount)
		if err != nil {
			return 0, err
		}

		amount, err := strconv.ParseFloat(raw, 64)
		if err == nil && validAmount(amount) {
			return amount, nil
		}

		c.println(msgInvalidAmount)
	}
}

// ask writes the prompt and reads a single trimmed line
func (c *Converter) ask(prompt string) (string, error) {
	_, _ = fmt.Fprint(c.out, prompt)

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("unable to read input: %w", err)
		}

		return "", io.EOF
	}

	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Converter) println(msg string) {
	_, _ = fmt.Fprintln(c.out, msg)
}

func (c *Converter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// WriteHistory writes the conversion records, one per line
func WriteHistory(w io.Writer, items []*types.Conversion) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, msgEmptyHistory)

		return
	}

	for _, item := range items {
		_, _ = fmt.Fprintf(
			w,
			"ID: %d, Amount: %s, From: %s, To: %s, Converted Amount: %s, Date: %s\n",
			item.ID,
			formatAmount(item.Amount),
			item.From,
			item.To,
			formatAmount(item.ConvertedAmount),
			item.Date.Format(types.DateLayout),
		)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// validAmount reports whether the amount is positive and finite
func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 1)
}

func isYes(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), answerYes)
}
