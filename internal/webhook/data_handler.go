package webhook

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohamedkhairy/tvstore/internal/indicator"
	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/internal/series"
	"github.com/mohamedkhairy/tvstore/internal/storage"
	"github.com/mohamedkhairy/tvstore/pkg/logger"
)

// DataHandler serves the read paths: the raw CSV extract and the
// indicator report.
type DataHandler struct {
	reader *series.Reader
	engine *indicator.Engine
}

// NewDataHandler creates a data handler over the reader and engine.
func NewDataHandler(reader *series.Reader, engine *indicator.Engine) *DataHandler {
	return &DataHandler{reader: reader, engine: engine}
}

// GetData handles GET /api/v1/data/{ticker}?start=...&end=...
// The response body is the vendor-format CSV extract.
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	out, err := h.reader.Extract(r.Context(), ticker, start, end, time.Now())
	if err != nil {
		respondReadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

// GetIndicator handles
// GET /api/v1/indicators/{ticker}?indicator=...&curr_date=...&look_back_days=...
// The response body is the rendered indicator report.
func (h *DataHandler) GetIndicator(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	name := r.URL.Query().Get("indicator")
	currDate := r.URL.Query().Get("curr_date")

	lookBackDays := 0
	if raw := r.URL.Query().Get("look_back_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "look_back_days must be an integer")
			return
		}
		lookBackDays = parsed
	}

	if name == "" {
		respondWithError(w, http.StatusBadRequest, "indicator is required")
		return
	}

	report, err := h.engine.Report(r.Context(), ticker, name, currDate, lookBackDays)
	if err != nil {
		respondReadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(indicator.Render(report)))
}

// respondReadError maps read-path errors to HTTP statuses: validation
// problems are 4xx, missing data is 404, storage failures are 500.
func respondReadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidDateFormat),
		errors.Is(err, models.ErrUnsupportedIndicator):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNoDataAvailable):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		var storageErr *storage.StorageError
		if errors.As(err, &storageErr) {
			logger.Error("Storage failure on read path",
				logger.ErrorField(err),
				logger.String("path", r.URL.Path),
			)
			respondWithError(w, http.StatusInternalServerError, "Storage failure")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
	}
}
