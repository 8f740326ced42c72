package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/viewstate"
)

const (
	Prefix         = "usage/"
	csvContentType = "text/csv"
)

var ErrNotReady = errors.New("usage data is not loaded")

// Result holds where the two exported files ended up.
type Result struct {
	History   string `json:"history"`
	Breakdown string `json:"breakdown"`
}

// Exporter writes what the usage screen currently displays.
type Exporter struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

func NewExporter(store Store, logger zerolog.Logger) *Exporter {
	return &Exporter{store: store, now: time.Now, log: logger.With().Str("component", "export").Logger()}
}

func (e *Exporter) Export(ctx context.Context, st viewstate.UsageState) (Result, error) {
	if st.Phase != viewstate.PhaseReady {
		return Result{}, fmt.Errorf("%w: screen is %s", ErrNotReady, st.Phase)
	}
	stamp := e.now().UTC().Format("20060102T150405Z")

	var hist, brk bytes.Buffer
	if err := WriteHistoryCSV(&hist, st.Query().Interval, st.History); err != nil {
		return Result{}, fmt.Errorf("history csv: %w", err)
	}
	if err := WriteBreakdownCSV(&brk, st.Breakdown); err != nil {
		return Result{}, fmt.Errorf("breakdown csv: %w", err)
	}

	var res Result
	var err error
	histKey := fmt.Sprintf("%s%s-history-%s.csv", Prefix, stamp, st.Query().Interval)
	if res.History, err = e.store.Put(ctx, histKey, hist.Bytes(), csvContentType); err != nil {
		return Result{}, err
	}
	brkKey := fmt.Sprintf("%s%s-breakdown-%s.csv", Prefix, stamp, st.Period)
	if res.Breakdown, err = e.store.Put(ctx, brkKey, brk.Bytes(), csvContentType); err != nil {
		return Result{}, err
	}
	e.log.Info().Str("history", histKey).Str("breakdown", brkKey).Msg("usage exported")
	return res, nil
}

// List returns the keys of earlier exports.
func (e *Exporter) List(ctx context.Context) ([]string, error) {
	return e.store.List(ctx, Prefix)
}
