package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/date"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/subcommands"
)

// serveCmd exposes the ledger and its reports over HTTP, the replacement
// for the old web dashboard.
type serveCmd struct {
	ledger string
	addr   string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio reports over HTTP" }
func (*serveCmd) Usage() string {
	return `hld serve [-addr <host:port>] [-l <ledger>]

  Serves the ledger and its reports as a JSON API:

    GET  /api/summary       the whole-portfolio summary
    GET  /api/sales         one row per past sale
    GET  /api/tax           realized gains by asset and year
    GET  /api/transactions  the raw ledger
    POST /api/transactions  record a transaction

Usage Examples:
$ hld serve -addr :8080

`
}

func (p *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to serve. Defaults to the only ledger if one exists.")
	f.StringVar(&p.addr, "addr", "localhost:8080", "Address to listen on.")
}

func (p *serveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", p.handleSummary)
		r.Get("/sales", p.handleSales)
		r.Get("/tax", p.handleTax)
		r.Get("/transactions", p.handleTransactions)
		r.Post("/transactions", p.handleRecord)
	})

	srv := &http.Server{
		Addr:         p.addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on http://%s", p.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		fmt.Fprintln(os.Stderr, "Server error:", err)
		return subcommands.ExitFailure
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("shutting down...")
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Shutdown error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (p *serveCmd) handleSummary(w http.ResponseWriter, r *http.Request) {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	summary, err := holdings.Summarize(ledger, nil)
	if summary == nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err != nil {
		// partial summary, one warning line per broken asset
		writeJSON(w, http.StatusOK, struct {
			*holdings.Summary
			Warnings []string `json:"warnings"`
		}{summary, strings.Split(err.Error(), "\n")})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (p *serveCmd) handleSales(w http.ResponseWriter, r *http.Request) {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	fragments, err := replayAll(ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, holdings.BySale(fragments))
}

func (p *serveCmd) handleTax(w http.ResponseWriter, r *http.Request) {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	fragments, err := replayAll(ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, holdings.TaxYears(fragments))
}

func (p *serveCmd) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := holdings.EncodeLedger(w, ledger); err != nil {
		writeError(w, http.StatusInternalServerError, err)
	}
}

// parseRecord builds a transaction from its string fields, as submitted by
// the API or a form.
func parseRecord(asset, class, side, quantity, price, currency, day, memo string) (holdings.Transaction, error) {
	s, err := holdings.ParseSide(side)
	if err != nil {
		return holdings.Transaction{}, err
	}
	q, err := holdings.ParseQuantity(quantity)
	if err != nil {
		return holdings.Transaction{}, fmt.Errorf("invalid quantity %q: %w", quantity, err)
	}
	pr, err := holdings.ParseQuantity(price)
	if err != nil {
		return holdings.Transaction{}, fmt.Errorf("invalid price %q: %w", price, err)
	}
	d, err := date.Parse(day)
	if err != nil {
		return holdings.Transaction{}, err
	}
	if currency == "" {
		currency = *defaultCurrency
	}
	return holdings.Transaction{
		Asset:     asset,
		Class:     holdings.ParseAssetClass(class),
		Side:      s,
		Quantity:  q,
		UnitPrice: holdings.M(pr.Decimal(), currency),
		Day:       d,
		Memo:      memo,
	}, nil
}

func (p *serveCmd) handleRecord(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Asset    string `json:"asset"`
		Class    string `json:"class"`
		Side     string `json:"side"`
		Quantity string `json:"quantity"`
		Price    string `json:"price"`
		Currency string `json:"currency"`
		Date     string `json:"date"`
		Memo     string `json:"memo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := parseRecord(in.Asset, in.Class, in.Side, in.Quantity, in.Price, in.Currency, in.Date, in.Memo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	seq, err := ledger.Append(tx)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err := saveLedger(ledger); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"seq": seq})
}
