package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/basbook/internal/ledger"
	"github.com/cleared-dev/basbook/internal/model"
	"github.com/cleared-dev/basbook/internal/observability"
	"github.com/cleared-dev/basbook/internal/period"
	"github.com/cleared-dev/basbook/internal/report"
	"github.com/cleared-dev/basbook/internal/session"
)

type uploadResponse struct {
	SessionID string `json:"session_id"`
	Variant   string `json:"variant"`
	Rows      int    `json:"rows"`
	Undated   int    `json:"undated"`
}

type summaryResponse struct {
	Period        string        `json:"period"`
	FinancialYear int           `json:"financial_year,omitempty"`
	BASPeriod     string        `json:"bas_period,omitempty"`
	Count         int           `json:"count"`
	Summary       model.Summary `json:"summary"`
}

type transactionJSON struct {
	Date          *string         `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	GST           decimal.Decimal `json:"gst"`
	FinancialYear int             `json:"financial_year,omitempty"`
	BASPeriod     string          `json:"bas_period,omitempty"`
}

type transactionsResponse struct {
	Period       string            `json:"period"`
	Count        int               `json:"count"`
	Transactions []transactionJSON `json:"transactions"`
}

func uploadHandler(svc *Service, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxUploadBytes)

		variant := r.URL.Query().Get("variant")
		body, closeBody, err := uploadBody(r)
		if err != nil {
			metrics.IncrUpload("error", 0)
			if errors.Is(err, http.ErrMissingFile) {
				writeError(w, http.StatusBadRequest, "file is required")
				return
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				handleError(w, err, logger)
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer closeBody()

		if v := r.FormValue("variant"); v != "" {
			variant = v
		}
		if variant == "" {
			variant = svc.DefaultVariant
		}
		parser, err := svc.Parsers.Lookup(variant)
		if err != nil {
			metrics.IncrUpload("error", 0)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		set, err := parser.Parse(body)
		if err != nil {
			metrics.IncrUpload(outcome(err), 0)
			var tooLarge *http.MaxBytesError
			if outcome(err) == "error" && !errors.As(err, &tooLarge) {
				// malformed CSV
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			handleError(w, err, logger)
			return
		}

		id := sessionID(r)
		if id == "" {
			id = session.NewID()
		}
		if err := svc.Sessions.Put(id, set); err != nil {
			metrics.IncrUpload("error", 0)
			handleError(w, err, logger)
			return
		}
		metrics.IncrUpload("ok", set.Len())

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(svc.SessionTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		undated := 0
		for _, t := range set.All() {
			if !t.Dated() {
				undated++
			}
		}
		logger.Info("transactions uploaded",
			zap.String("session_id", id),
			zap.String("variant", parser.Format()),
			zap.Int("rows", set.Len()),
			zap.Int("undated", undated),
		)
		writeJSON(w, http.StatusCreated, uploadResponse{
			SessionID: id,
			Variant:   parser.Format(),
			Rows:      set.Len(),
			Undated:   undated,
		})
	}
}

// uploadBody returns the CSV stream from a multipart "file" field or, for
// text/csv requests, the raw body.
func uploadBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/csv", "text/plain":
		return r.Body, func() {}, nil
	case "multipart/form-data":
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported content type %q", mediaType)
}

func sessionID(r *http.Request) string {
	id := r.Header.Get(HeaderSessionID)
	if id == "" {
		if c, err := r.Cookie(CookieName); err == nil {
			id = c.Value
		}
	}
	if !session.ValidID(id) {
		return ""
	}
	return id
}

// buildReport loads the session's record set and applies the query selector.
func buildReport(svc *Service, r *http.Request) (report.Report, error) {
	q := r.URL.Query()
	sel, err := period.ParseSelector(q.Get("financial_year"), q.Get("bas_period"), q.Get("from"), q.Get("to"))
	if err != nil {
		return report.Report{}, err
	}

	id := sessionID(r)
	if id == "" {
		return report.Report{}, session.ErrNotFound
	}
	set, err := svc.Sessions.Get(id)
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(set, sel)
}

func summaryHandler(svc *Service, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := buildReport(svc, r)
		metrics.IncrReport("summary", outcome(err))
		if err != nil {
			handleError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, summaryResponse{
			Period:        report.Label(rep.Selector),
			FinancialYear: rep.Selector.FinancialYear,
			BASPeriod:     rep.Selector.BASPeriod.String(),
			Count:         rep.Transactions.Len(),
			Summary:       rep.Summary,
		})
	}
}

func transactionsHandler(svc *Service, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := buildReport(svc, r)
		metrics.IncrReport("transactions", outcome(err))
		if err != nil {
			handleError(w, err, logger)
			return
		}

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
			if err := ledger.WriteTransactions(w, rep.Transactions); err != nil {
				logger.Error("writing CSV response", zap.Error(err))
			}
			return
		}

		txns := make([]transactionJSON, 0, rep.Transactions.Len())
		for _, t := range rep.Transactions.All() {
			txns = append(txns, toJSON(t))
		}
		writeJSON(w, http.StatusOK, transactionsResponse{
			Period:       report.Label(rep.Selector),
			Count:        len(txns),
			Transactions: txns,
		})
	}
}

func toJSON(t model.Transaction) transactionJSON {
	out := transactionJSON{
		Description: t.Description,
		Amount:      t.Amount,
		Category:    string(t.Category),
		GST:         t.GST,
	}
	if t.Dated() {
		d := t.Date.Format("2006-01-02")
		out.Date = &d
		out.FinancialYear = period.FinancialYearOf(t.Date)
		out.BASPeriod = period.QuarterOf(t.Date).String()
	}
	return out
}

func clearSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := sessionID(r); id != "" {
			svc.Sessions.Delete(id)
		}
		http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	}
}
